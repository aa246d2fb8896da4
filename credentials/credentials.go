// Copyright 2024 MoabDB

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package credentials holds the user name and token authenticating requests to
// the MoabDB service.
package credentials

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/stockparfait/errors"
)

// Environment variables read by FromEnv.
const (
	UsernameEnv = "MOABDB_USERNAME"
	TokenEnv    = "MOABDB_TOKEN"
)

// Credentials of a MoabDB user. The zero value means no credentials, and is
// sent as empty strings.
type Credentials struct {
	Username string
	Token    string
}

// New creates Credentials.
func New(username, token string) Credentials {
	return Credentials{Username: username, Token: token}
}

// IsZero checks whether the credentials are empty.
func (c Credentials) IsZero() bool {
	return c.Username == "" && c.Token == ""
}

// FromEnv reads credentials from the environment. If dotenv files are given,
// they are loaded first; variables already set in the environment take
// precedence over the files. Returns nil if neither variable is set.
func FromEnv(dotenvFiles ...string) (*Credentials, error) {
	if len(dotenvFiles) > 0 {
		if err := godotenv.Load(dotenvFiles...); err != nil {
			return nil, errors.Annotate(err, "failed to load env files %v", dotenvFiles)
		}
	}
	c := New(os.Getenv(UsernameEnv), os.Getenv(TokenEnv))
	if c.IsZero() {
		return nil, nil
	}
	return &c, nil
}
