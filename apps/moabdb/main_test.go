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


package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/testutil"

	"github.com/moabdb/moabdb-go"
	"github.com/moabdb/moabdb-go/protocol"

	. "github.com/smartystreets/goconvey/convey"
)

type testRow struct {
	Close  float64 `parquet:"close"`
	Symbol string  `parquet:"symbol"`
}

// testService responds to each request with a one-row table of its symbol,
// except for the symbol "NONE" which is not found.
type testService struct {
	*httptest.Server
	mu       sync.Mutex
	requests []*protocol.Request
}

func newTestService() *testService {
	s := &testService{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := protocol.RequestFromWire(r.Header.Get(moabdb.RequestHeader))
		if err != nil {
			w.Write([]byte(protocol.ResponseToWire(&protocol.Response{Code: 400, Data: []byte{}})))
			return
		}
		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()
		if req.Symbol == "NONE" {
			w.Write([]byte(protocol.ResponseToWire(&protocol.Response{Code: 404, Data: []byte{}})))
			return
		}
		var buf bytes.Buffer
		if err := parquet.Write(&buf, []testRow{{Close: 1.5, Symbol: req.Symbol}}); err != nil {
			w.Write([]byte(protocol.ResponseToWire(&protocol.Response{Code: 500, Data: []byte{}})))
			return
		}
		w.Write([]byte(protocol.ResponseToWire(&protocol.Response{Code: 200, Data: buf.Bytes()})))
	}))
	return s
}

func TestApp(t *testing.T) {
	t.Parallel()

	tmpdir, tmpdirErr := os.MkdirTemp("", "test_moabdb_app")
	defer os.RemoveAll(tmpdir)

	Convey("Setup succeeded", t, func() {
		So(tmpdirErr, ShouldBeNil)
	})

	Convey("parseFlags", t, func() {
		Convey("all flags", func() {
			flags, err := parseFlags([]string{
				"-symbols", "AAPL, MSFT,AAPL", "-start", "2020-01-01", "-length", "3mo",
				"-intraday", "-csv", "-rows", "5", "-describe", "-qps", "2.5",
				"-workers", "3", "-config", "c.toml", "-env", ".env",
				"-log-level", "warning"})
			So(err, ShouldBeNil)
			So(flags.Symbols, ShouldResemble, []string{"AAPL", "MSFT"})
			So(flags.Start, ShouldEqual, "2020-01-01")
			So(flags.Length, ShouldEqual, "3mo")
			So(flags.Intraday, ShouldBeTrue)
			So(flags.CSV, ShouldBeTrue)
			So(flags.Rows, ShouldEqual, 5)
			So(flags.Describe, ShouldBeTrue)
			So(flags.QPS, ShouldEqual, 2.5)
			So(flags.Workers, ShouldEqual, 3)
			So(flags.Config, ShouldEqual, "c.toml")
			So(flags.EnvFile, ShouldEqual, ".env")
			So(flags.LogLevel, ShouldEqual, logging.Warning)
		})

		Convey("symbols are required", func() {
			_, err := parseFlags([]string{"-length", "1y"})
			So(err, ShouldNotBeNil)
		})

		Convey("window spec", func() {
			flags, err := parseFlags([]string{"-symbols", "A",
				"-start", "2020-01-01", "-end", "2020-01-02 12:00"})
			So(err, ShouldBeNil)
			s, err := flags.spec()
			So(err, ShouldBeNil)
			w, err := s.Build()
			So(err, ShouldBeNil)
			So(w.String(), ShouldEqual, "[2020-01-01 00:00:00, 2020-01-02 12:00:00]")

			flags.Length = "3x"
			_, err = flags.spec()
			So(err, ShouldNotBeNil)
		})
	})

	Convey("parseConfig", t, func() {
		configPath := filepath.Join(tmpdir, "config.toml")

		Convey("valid config", func() {
			So(testutil.WriteFile(configPath, `url = "http://localhost/"
username = "user"
token = "secret"
`), ShouldBeNil)
			c, err := parseConfig(configPath)
			So(err, ShouldBeNil)
			So(c, ShouldResemble, &Config{
				URL: "http://localhost/", Username: "user", Token: "secret"})
		})

		Convey("unknown field", func() {
			So(testutil.WriteFile(configPath, `key = "value"`), ShouldBeNil)
			_, err := parseConfig(configPath)
			So(err, ShouldNotBeNil)
		})

		Convey("no config", func() {
			c, err := parseConfig("")
			So(err, ShouldBeNil)
			So(c, ShouldResemble, &Config{})
		})
	})

	Convey("run works", t, func() {
		service := newTestService()
		defer service.Close()
		configPath := filepath.Join(tmpdir, "run.toml")
		So(testutil.WriteFile(configPath, `url = "`+service.URL+`"
username = "user"
token = "secret"
`), ShouldBeNil)
		ctx := context.Background()

		Convey("one symbol as text", func() {
			flags, err := parseFlags([]string{"-config", configPath,
				"-symbols", "AAPL", "-start", "2020-01-01", "-length", "1d"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(run(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
close | symbol
----- | ------
  1.5 |   AAPL
`)
			So(service.requests, ShouldResemble, []*protocol.Request{{
				Symbol:   "AAPL",
				Start:    1577836800,
				End:      1577836800 + 86400,
				Datatype: protocol.DailyStocks,
				Username: "user",
				Token:    "secret",
			}})
		})

		Convey("several symbols as CSV", func() {
			flags, err := parseFlags([]string{"-config", configPath,
				"-symbols", "AAPL,MSFT,IBM", "-length", "1w", "-intraday", "-csv",
				"-qps", "100", "-workers", "2"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(run(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
== AAPL ==
close,symbol
1.5,AAPL
== MSFT ==
close,symbol
1.5,MSFT
== IBM ==
close,symbol
1.5,IBM
`)
			So(len(service.requests), ShouldEqual, 3)
			for _, r := range service.requests {
				So(r.Datatype, ShouldEqual, protocol.IntradayStocks)
				So(r.End-r.Start, ShouldEqual, 7*86400)
			}
		})

		Convey("describe", func() {
			flags, err := parseFlags([]string{"-config", configPath,
				"-symbols", "AAPL", "-length", "1d", "-describe", "-csv"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(run(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
Column,Count,Mean,Std,Min,Max
close,1,1.5,0,1.5,1.5
`)
		})

		Convey("failed symbols are reported", func() {
			flags, err := parseFlags([]string{"-config", configPath,
				"-symbols", "AAPL,NONE", "-length", "1d", "-csv"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			err = run(ctx, flags, &buf)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "NONE")
			So("\n"+buf.String(), ShouldEqual, `
== AAPL ==
close,symbol
1.5,AAPL
`)
		})

		Convey("invalid window", func() {
			flags, err := parseFlags([]string{"-config", configPath,
				"-symbols", "AAPL", "-start", "2020-01-02", "-end", "2020-01-01"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(run(ctx, flags, &buf), ShouldNotBeNil)
			So(len(service.requests), ShouldEqual, 0)
		})
	})
}
