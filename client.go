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
	"context"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"

	"github.com/moabdb/moabdb-go/credentials"
	"github.com/moabdb/moabdb-go/protocol"
	"github.com/moabdb/moabdb-go/table"
	"github.com/moabdb/moabdb-go/window"
)

type contextKey int

const (
	clientContextKey contextKey = iota
)

// URL is the default service endpoint. It may be overwritten in tests before
// creating a new client.
var URL = "https://api.moabdb.com/request/v1/"

// RequestHeader is the HTTP header carrying the wire text of the request.
const RequestHeader = "x-req"

// Decoder converts the payload of a successful response into a table.
type Decoder func(data []byte) (*table.Table, error)

// Client of the MoabDB service. It is immutable and safe for concurrent use.
type Client struct {
	url     string       // the service endpoint
	http    *http.Client // transport
	decoder Decoder      // payload decoder
}

// NewClient creates a client for the service endpoint. If hc is nil,
// http.DefaultClient is used. Payloads are decoded as Parquet.
func NewClient(url string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{url: url, http: hc, decoder: table.ReadParquet}
}

// WithDecoder creates a copy of the client with a different payload decoder.
func (c *Client) WithDecoder(d Decoder) *Client {
	c2 := *c
	c2.decoder = d
	return &c2
}

// UseClient injects the client into the context.
func UseClient(ctx context.Context, c *Client) context.Context {
	return context.WithValue(ctx, clientContextKey, c)
}

// GetClient extracts the Client from the context, if any.
func GetClient(ctx context.Context) *Client {
	c, ok := ctx.Value(clientContextKey).(*Client)
	if !ok {
		return nil
	}
	return c
}

// NewRequest creates the protocol request for the symbol and window. The
// window bounds are truncated to 32-bit seconds since epoch, which limits them
// to years 1970 through 2106. Nil credentials are sent as empty strings.
func NewRequest(symbol string, w window.Window, intraday bool, creds *credentials.Credentials) *protocol.Request {
	datatype := protocol.DailyStocks
	if intraday {
		datatype = protocol.IntradayStocks
	}
	var c credentials.Credentials
	if creds != nil {
		c = *creds
	}
	return &protocol.Request{
		Symbol:   symbol,
		Start:    uint32(w.Start.Unix()),
		End:      uint32(w.End.Unix()),
		Datatype: datatype,
		Username: c.Username,
		Token:    c.Token,
	}
}

// exchange sends the wire text of a request and returns the response body. The
// HTTP status is ignored: the outcome is in the response code.
func (c *Client) exchange(ctx context.Context, wire string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", errors.Annotate(err, "failed to create request")
	}
	req.Header.Set(RequestHeader, wire)
	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Annotate(err, "GET %s failed", c.url)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Annotate(err, "failed to read response body")
	}
	if !utf8.Valid(body) {
		return "", errors.Reason("response body is not valid UTF-8")
	}
	return string(body), nil
}

// GetEquity fetches the equity data of the symbol within the window: daily bars
// by default, or intraday data when intraday is true. Credentials may be nil
// for an unauthenticated request. The returned error is always an Error.
func (c *Client) GetEquity(ctx context.Context, symbol string, w window.Window, intraday bool, creds *credentials.Credentials) (*table.Table, error) {
	req := NewRequest(symbol, w, intraday, creds)
	logging.Debugf(ctx, "MoabDB: requesting %s of %s for %s", req.Datatype, symbol, w)

	body, err := c.exchange(ctx, protocol.RequestToWire(req))
	if err != nil {
		logging.Warningf(ctx, "MoabDB: %s: %s", symbol, err.Error())
		return nil, TransportError
	}
	resp, err := protocol.ResponseFromWire(body)
	if err != nil {
		logging.Warningf(ctx, "MoabDB: %s: failed to decode response: %s",
			symbol, err.Error())
		return nil, TransportError
	}
	if err := codeError(resp.Code); err != nil {
		logging.Warningf(ctx, "MoabDB: %s: response code %d: %s",
			symbol, resp.Code, err.Error())
		return nil, err
	}
	t, err := c.decoder(resp.Data)
	if err != nil {
		logging.Warningf(ctx, "MoabDB: %s: failed to decode %d bytes of data: %s",
			symbol, len(resp.Data), err.Error())
		return nil, TransportError
	}
	logging.Infof(ctx, "MoabDB: fetched %d rows of %s for %s", t.NumRows(), symbol, w)
	return t, nil
}

// GetEquity fetches the equity data using the Client from the context, or a
// default client for URL if there is none. See Client.GetEquity.
func GetEquity(ctx context.Context, symbol string, w window.Window, intraday bool, creds *credentials.Credentials) (*table.Table, error) {
	c := GetClient(ctx)
	if c == nil {
		c = NewClient(URL, nil)
	}
	return c.GetEquity(ctx, symbol, w, intraday, creds)
}
