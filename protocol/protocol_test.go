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
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	. "github.com/smartystreets/goconvey/convey"
)

func TestProtocol(t *testing.T) {
	t.Parallel()

	Convey("Request", t, func() {
		req := Request{
			Symbol:   "AAPL",
			Start:    1577836800,
			End:      1580515200,
			Datatype: IntradayStocks,
			Username: "user@example.com",
			Token:    "secret",
		}

		Convey("round-trips through wire text", func() {
			r, err := RequestFromWire(RequestToWire(&req))
			So(err, ShouldBeNil)
			So(r, ShouldResemble, &req)
		})

		Convey("round-trips the maximum timestamp", func() {
			req.Start = 0
			req.End = 1<<32 - 1
			r, err := RequestFromWire(RequestToWire(&req))
			So(err, ShouldBeNil)
			So(r, ShouldResemble, &req)
		})

		Convey("writes empty fields instead of omitting them", func() {
			r := Request{Symbol: "A", Start: 1, End: 2, Datatype: "d"}
			So(r.Marshal(), ShouldResemble, []byte{
				0x0a, 0x01, 'A', // symbol
				0x10, 0x01, // start
				0x18, 0x02, // end
				0x22, 0x01, 'd', // datatype
				0x2a, 0x00, // username
				0x32, 0x00, // token
			})
			r2, err := UnmarshalRequest(r.Marshal())
			So(err, ShouldBeNil)
			So(r2, ShouldResemble, &r)
		})

		Convey("wire text is header-safe base64", func() {
			s := RequestToWire(&req)
			So(s, ShouldNotContainSubstring, "\n")
			So(len(s)%4, ShouldEqual, 0)
		})

		Convey("rejects a missing field", func() {
			b := req.Marshal()
			// Drop the trailing token field: tag, length and 6 bytes.
			_, err := UnmarshalRequest(b[:len(b)-8])
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "missing required field 6")
		})
	})

	Convey("Response", t, func() {
		resp := Response{Code: 200, Data: []byte{0, 1, 2, 'P', 'A', 'R', '1'}}

		Convey("round-trips through wire text", func() {
			r, err := ResponseFromWire(ResponseToWire(&resp))
			So(err, ShouldBeNil)
			So(r, ShouldResemble, &resp)
		})

		Convey("round-trips empty data and negative codes", func() {
			resp = Response{Code: -1, Data: []byte{}}
			r, err := ResponseFromWire(ResponseToWire(&resp))
			So(err, ShouldBeNil)
			So(r, ShouldResemble, &resp)
		})

		Convey("tolerates a trailing newline", func() {
			r, err := ResponseFromWire(ResponseToWire(&resp) + "\n")
			So(err, ShouldBeNil)
			So(r, ShouldResemble, &resp)
		})

		Convey("skips unknown fields", func() {
			b := resp.Marshal()
			b = protowire.AppendTag(b, 15, protowire.VarintType)
			b = protowire.AppendVarint(b, 42)
			b = protowire.AppendTag(b, 16, protowire.BytesType)
			b = protowire.AppendString(b, "future")
			r, err := UnmarshalResponse(b)
			So(err, ShouldBeNil)
			So(r, ShouldResemble, &resp)
		})

		Convey("rejects invalid base64", func() {
			_, err := ResponseFromWire("not base64!")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid wire text")
		})

		Convey("rejects truncated bytes", func() {
			b := resp.Marshal()
			_, err := UnmarshalResponse(b[:len(b)-1])
			So(err, ShouldNotBeNil)
		})

		Convey("rejects a missing code", func() {
			var b []byte
			b = protowire.AppendTag(b, responseData, protowire.BytesType)
			b = protowire.AppendBytes(b, []byte("data"))
			_, err := UnmarshalResponse(b)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "missing required field 1")
		})

		Convey("rejects a wrong wire type", func() {
			var b []byte
			b = protowire.AppendTag(b, responseCode, protowire.BytesType)
			b = protowire.AppendString(b, "200")
			b = protowire.AppendTag(b, responseData, protowire.BytesType)
			b = protowire.AppendBytes(b, nil)
			_, err := UnmarshalResponse(b)
			So(err, ShouldNotBeNil)
		})

		Convey("rejects garbage", func() {
			_, err := UnmarshalResponse([]byte{0xff, 0xff, 0xff})
			So(err, ShouldNotBeNil)
		})
	})
}
