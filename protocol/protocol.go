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


// Package protocol implements the MoabDB request/response schema and its text
// framing.
//
// Messages are serialized in the protocol buffers wire format with proto2
// semantics: every field is always written, even when empty, and a decoder
// rejects messages missing any of the known fields. Unknown fields are skipped,
// so that new fields may be added to the schema without breaking older
// clients. The serialized bytes are framed as standard padded base64 to travel
// as a single HTTP header value or a text body.
//
// Request schema:
//   1: symbol   (string)
//   2: start    (uint32, seconds since epoch)
//   3: end      (uint32, seconds since epoch)
//   4: datatype (string)
//   5: username (string)
//   6: token    (string)
//
// Response schema:
//   1: code (int32)
//   2: data (bytes)
package protocol

import (
	"github.com/stockparfait/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// Values of Request.Datatype.
const (
	DailyStocks    = "daily_stocks"
	IntradayStocks = "intraday_stocks"
)

// Request for a dataset of a single symbol within [Start, End].
type Request struct {
	Symbol   string
	Start    uint32 // seconds since epoch
	End      uint32 // seconds since epoch
	Datatype string
	Username string
	Token    string
}

// Response to a Request. Code follows HTTP status semantics; Data is the
// columnar payload when Code is 200.
type Response struct {
	Code int32
	Data []byte
}

const (
	requestSymbol   protowire.Number = 1
	requestStart    protowire.Number = 2
	requestEnd      protowire.Number = 3
	requestDatatype protowire.Number = 4
	requestUsername protowire.Number = 5
	requestToken    protowire.Number = 6

	responseCode protowire.Number = 1
	responseData protowire.Number = 2
)

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// Marshal serializes the request. The output is deterministic: fields are
// written in the order of their numbers.
func (r *Request) Marshal() []byte {
	var b []byte
	b = appendString(b, requestSymbol, r.Symbol)
	b = appendVarint(b, requestStart, uint64(r.Start))
	b = appendVarint(b, requestEnd, uint64(r.End))
	b = appendString(b, requestDatatype, r.Datatype)
	b = appendString(b, requestUsername, r.Username)
	b = appendString(b, requestToken, r.Token)
	return b
}

// Marshal serializes the response.
func (r *Response) Marshal() []byte {
	var b []byte
	// int32 is sign-extended to 64 bits, as protobuf does.
	b = appendVarint(b, responseCode, uint64(int64(r.Code)))
	b = protowire.AppendTag(b, responseData, protowire.BytesType)
	b = protowire.AppendBytes(b, r.Data)
	return b
}

// field is a single decoded known field: either a varint or a length-delimited
// value, depending on the wire type.
type field struct {
	varint uint64
	bytes  []byte
}

// parse splits b into the known fields listed in types, skipping unknown
// fields, and checks that every known field is present. For repeated
// occurrences the last one wins, as in protobuf.
func parse(b []byte, types map[protowire.Number]protowire.Type) (map[protowire.Number]field, error) {
	fields := make(map[protowire.Number]field, len(types))
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, errors.Annotate(protowire.ParseError(n), "invalid tag")
		}
		b = b[n:]
		expected, known := types[num]
		if !known {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, errors.Annotate(protowire.ParseError(n),
					"invalid value of unknown field %d", num)
			}
			b = b[n:]
			continue
		}
		if typ != expected {
			return nil, errors.Reason("field %d has wire type %d, expected %d",
				num, typ, expected)
		}
		var f field
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		default:
			return nil, errors.Reason("unsupported wire type %d of field %d", typ, num)
		}
		if n < 0 {
			return nil, errors.Annotate(protowire.ParseError(n),
				"invalid value of field %d", num)
		}
		b = b[n:]
		fields[num] = f
	}
	for num := range types {
		if _, ok := fields[num]; !ok {
			return nil, errors.Reason("missing required field %d", num)
		}
	}
	return fields, nil
}

var requestTypes = map[protowire.Number]protowire.Type{
	requestSymbol:   protowire.BytesType,
	requestStart:    protowire.VarintType,
	requestEnd:      protowire.VarintType,
	requestDatatype: protowire.BytesType,
	requestUsername: protowire.BytesType,
	requestToken:    protowire.BytesType,
}

var responseTypes = map[protowire.Number]protowire.Type{
	responseCode: protowire.VarintType,
	responseData: protowire.BytesType,
}

// UnmarshalRequest deserializes a Request.
func UnmarshalRequest(b []byte) (*Request, error) {
	fields, err := parse(b, requestTypes)
	if err != nil {
		return nil, errors.Annotate(err, "failed to parse Request")
	}
	return &Request{
		Symbol:   string(fields[requestSymbol].bytes),
		Start:    uint32(fields[requestStart].varint),
		End:      uint32(fields[requestEnd].varint),
		Datatype: string(fields[requestDatatype].bytes),
		Username: string(fields[requestUsername].bytes),
		Token:    string(fields[requestToken].bytes),
	}, nil
}

// UnmarshalResponse deserializes a Response.
func UnmarshalResponse(b []byte) (*Response, error) {
	fields, err := parse(b, responseTypes)
	if err != nil {
		return nil, errors.Annotate(err, "failed to parse Response")
	}
	data := fields[responseData].bytes
	if data == nil {
		data = []byte{}
	}
	return &Response{
		Code: int32(fields[responseCode].varint),
		Data: append([]byte{}, data...),
	}, nil
}
