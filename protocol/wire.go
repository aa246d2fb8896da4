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


package protocol

import (
	"encoding/base64"
	"strings"

	"github.com/stockparfait/errors"
)

// Encode frames serialized bytes as wire text.
func Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Decode recovers serialized bytes from wire text. Surrounding whitespace, such
// as a trailing newline in a response body, is ignored.
func Decode(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Annotate(err, "invalid wire text")
	}
	return b, nil
}

// RequestToWire serializes and frames the request.
func RequestToWire(r *Request) string {
	return Encode(r.Marshal())
}

// RequestFromWire is the inverse of RequestToWire.
func RequestFromWire(s string) (*Request, error) {
	b, err := Decode(s)
	if err != nil {
		return nil, err
	}
	return UnmarshalRequest(b)
}

// ResponseToWire serializes and frames the response.
func ResponseToWire(r *Response) string {
	return Encode(r.Marshal())
}

// ResponseFromWire is the inverse of ResponseToWire.
func ResponseFromWire(s string) (*Response, error) {
	b, err := Decode(s)
	if err != nil {
		return nil, err
	}
	return UnmarshalResponse(b)
}
