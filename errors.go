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


package moabdb

import (
	"fmt"
)

// Error is the kind of a failed request. It carries no other information; use
// errors.Is or a direct comparison to check for a specific kind.
type Error int

// Values of Error.
const (
	ServerInternalError Error = iota + 1
	// ServerTimeoutError is reserved for a server-side timeout; no response code
	// currently maps to it.
	ServerTimeoutError
	DecodeError
	RequestError
	// TransportError covers network failures as well as undecodable responses
	// and payloads.
	TransportError
	NotFound
	Unauthorized
	UnknownError
)

var _ error = ServerInternalError

var errorNames = map[Error]string{
	ServerInternalError: "server internal error",
	ServerTimeoutError:  "server timeout",
	DecodeError:         "decode error",
	RequestError:        "bad request",
	TransportError:      "transport error",
	NotFound:            "not found",
	Unauthorized:        "unauthorized",
	UnknownError:        "unknown error",
}

// Error implements error.
func (e Error) Error() string {
	if s, ok := errorNames[e]; ok {
		return "moabdb: " + s
	}
	return fmt.Sprintf("moabdb: Error(%d)", int(e))
}

// codeError maps a response code to an Error; nil means success.
func codeError(code int32) error {
	switch code {
	case 200:
		return nil
	case 400:
		return RequestError
	case 401:
		return Unauthorized
	case 404:
		return NotFound
	case 500:
		return ServerInternalError
	}
	return UnknownError
}
