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


// Command moabdb fetches equity data of one or more symbols from the MoabDB
// service and prints it as a table.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/logging"
	"golang.org/x/exp/slices"
	"golang.org/x/time/rate"

	"github.com/moabdb/moabdb-go"
	"github.com/moabdb/moabdb-go/credentials"
	"github.com/moabdb/moabdb-go/table"
	"github.com/moabdb/moabdb-go/window"

	toml "github.com/pelletier/go-toml/v2"
)

type Flags struct {
	Symbols  []string // required
	Start    string   // naive date or date-time
	End      string
	Length   string // e.g. 3mo, see window.ParseLength
	Intraday bool
	Config   string // optional TOML config file
	EnvFile  string // optional dotenv file with credentials
	CSV      bool   // dump CSV format; default: text.
	Rows     int    // max. rows to print per symbol; 0 = all
	Describe bool   // print column statistics instead of the data
	QPS      float64
	Workers  int
	LogLevel logging.Level
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	var symbols string
	fs := flag.NewFlagSet("moabdb", flag.ExitOnError)
	fs.StringVar(&symbols, "symbols", "", "comma-separated ticker symbols (required)")
	fs.StringVar(&flags.Start, "start", "", "window start: YYYY-MM-DD[ hh:mm[:ss]]")
	fs.StringVar(&flags.End, "end", "", "window end: YYYY-MM-DD[ hh:mm[:ss]]")
	fs.StringVar(&flags.Length, "length", "",
		"window length: N followed by s, min, h, d, w, mo or y")
	fs.BoolVar(&flags.Intraday, "intraday", false, "fetch intraday data; default: daily")
	fs.StringVar(&flags.Config, "config", "",
		"TOML config file with url, username and token")
	fs.StringVar(&flags.EnvFile, "env", "",
		"dotenv file defining "+credentials.UsernameEnv+" and "+credentials.TokenEnv)
	fs.BoolVar(&flags.CSV, "csv", false, "print tables in CSV format; default: text")
	fs.IntVar(&flags.Rows, "rows", 0, "max. number of rows to print; 0 = all")
	fs.BoolVar(&flags.Describe, "describe", false, "print statistics of numeric columns")
	fs.Float64Var(&flags.QPS, "qps", 0, "max. requests per second; 0 = unlimited")
	fs.IntVar(&flags.Workers, "workers", runtime.NumCPU(), "max. concurrent requests")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	for _, s := range strings.Split(symbols, ",") {
		s = strings.TrimSpace(s)
		if s != "" && !slices.Contains(flags.Symbols, s) {
			flags.Symbols = append(flags.Symbols, s)
		}
	}
	if len(flags.Symbols) == 0 {
		return nil, errors.Reason("missing required -symbols argument")
	}
	if flags.Workers < 1 {
		return nil, errors.Reason("-workers must be >= 1, got %d", flags.Workers)
	}
	return &flags, nil
}

// spec creates the window spec from the flags.
func (f *Flags) spec() (*window.Spec, error) {
	s := window.NewSpec()
	if f.Start != "" {
		t, err := window.ParseTime(f.Start)
		if err != nil {
			return nil, errors.Annotate(err, "invalid -start")
		}
		s.StartAt(t)
	}
	if f.End != "" {
		t, err := window.ParseTime(f.End)
		if err != nil {
			return nil, errors.Annotate(err, "invalid -end")
		}
		s.EndAt(t)
	}
	if f.Length != "" {
		l, err := window.ParseLength(f.Length)
		if err != nil {
			return nil, errors.Annotate(err, "invalid -length")
		}
		s.WithLength(l)
	}
	return s, nil
}

type Config struct {
	URL      string `toml:"url"`      // service endpoint; default: moabdb.URL
	Username string `toml:"username"` // MoabDB account
	Token    string `toml:"token"`    // API token of the account
}

func parseConfig(path string) (*Config, error) {
	var c Config
	if path == "" {
		return &c, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open config file %s", path)
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	d.DisallowUnknownFields()
	if err := d.Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to read config file %s", path)
	}
	return &c, nil
}

// getCredentials from the config, or else from the environment. Nil means an
// unauthenticated request.
func getCredentials(c *Config, envFile string) (*credentials.Credentials, error) {
	if c.Username != "" || c.Token != "" {
		creds := credentials.New(c.Username, c.Token)
		return &creds, nil
	}
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	creds, err := credentials.FromEnv(files...)
	if err != nil {
		return nil, errors.Annotate(err, "failed to read credentials")
	}
	return creds, nil
}

type result struct {
	Symbol string
	Table  *table.Table
	Err    error
}

// fetchAll fetches the symbols concurrently, pacing the requests by the
// limiter. Results are in the order of symbols.
func fetchAll(ctx context.Context, flags *Flags, w window.Window, creds *credentials.Credentials) []result {
	limit := rate.Inf
	if flags.QPS > 0 {
		limit = rate.Limit(flags.QPS)
	}
	limiter := rate.NewLimiter(limit, 1)

	f := func(symbol string) result {
		if err := limiter.Wait(ctx); err != nil {
			return result{Symbol: symbol, Err: errors.Annotate(err, "rate limiter failed")}
		}
		t, err := moabdb.GetEquity(ctx, symbol, w, flags.Intraday, creds)
		return result{Symbol: symbol, Table: t, Err: err}
	}
	pm := iterator.ParallelMap(ctx, flags.Workers, iterator.FromSlice(flags.Symbols), f)
	defer pm.Close()

	results := iterator.Reduce[result, []result](pm, []result{}, func(r result, rs []result) []result {
		return append(rs, r)
	})
	sort.Slice(results, func(i, j int) bool {
		return slices.Index(flags.Symbols, results[i].Symbol) <
			slices.Index(flags.Symbols, results[j].Symbol)
	})
	return results
}

func printTable(flags *Flags, t *table.Table, w io.Writer) error {
	p := table.Params{Rows: flags.Rows}
	if flags.Describe {
		t = table.Describe(t)
		p.Rows = 0
	}
	if flags.CSV {
		return errors.Annotate(t.WriteCSV(w, p), "failed to print CSV")
	}
	return errors.Annotate(t.WriteText(w, p), "failed to print text")
}

func run(ctx context.Context, flags *Flags, w io.Writer) error {
	config, err := parseConfig(flags.Config)
	if err != nil {
		return errors.Annotate(err, "failed to parse config")
	}
	creds, err := getCredentials(config, flags.EnvFile)
	if err != nil {
		return err
	}
	url := moabdb.URL
	if config.URL != "" {
		url = config.URL
	}
	ctx = moabdb.UseClient(ctx, moabdb.NewClient(url, nil))

	spec, err := flags.spec()
	if err != nil {
		return err
	}
	win, err := spec.Build()
	if err != nil {
		return errors.Annotate(err, "failed to build the window")
	}
	logging.Debugf(ctx, "fetching %d symbols for %s", len(flags.Symbols), win)

	var failed []string
	for _, r := range fetchAll(ctx, flags, win, creds) {
		if r.Err != nil {
			logging.Errorf(ctx, "failed to fetch %s: %s", r.Symbol, r.Err.Error())
			failed = append(failed, r.Symbol)
			continue
		}
		if len(flags.Symbols) > 1 {
			if _, err := fmt.Fprintf(w, "== %s ==\n", r.Symbol); err != nil {
				return errors.Annotate(err, "failed to print symbol")
			}
		}
		if err := printTable(flags, r.Table, w); err != nil {
			return errors.Annotate(err, "failed to print %s", r.Symbol)
		}
	}
	if len(failed) > 0 {
		return errors.Reason("failed to fetch: %s", strings.Join(failed, ", "))
	}
	return nil
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := run(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
