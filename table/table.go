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


// Package table implements the in-memory result of a data request: a list of
// named columns and rows of cell values, with CSV and text output.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stockparfait/errors"
	"golang.org/x/exp/slices"
)

// Value of a single cell. It is one of nil, bool, int64, float64 or string.
type Value interface{}

// FormatValue prints a cell value for CSV or text output.
func FormatValue(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	}
	return fmt.Sprintf("%v", v)
}

// Row of cell values, one per column.
type Row []Value

// Strings is an encoding/csv compatible row representation.
func (r Row) Strings() []string {
	res := make([]string, len(r))
	for i, v := range r {
		res[i] = FormatValue(v)
	}
	return res
}

// Table container.
//
// A typical use:
//   t := NewTable("Date", "Close")
//   t.AddRow(Row{"2020-01-02", 300.35}, Row{"2020-01-03", 297.43})
//   t.WriteText(os.Stdout, Params{})
type Table struct {
	Header []string // column names
	Rows   []Row
}

// NewTable creates a new Table instance with column headers. It is expected
// that the number of column headers is the same as the number of elements in
// each Row.
func NewTable(header ...string) *Table {
	return &Table{Header: header}
}

// AddRow adds one or more rows to the table.
func (t *Table) AddRow(rows ...Row) {
	t.Rows = append(t.Rows, rows...)
}

// NumRows in the table.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// Column returns the values of the named column.
func (t *Table) Column(name string) ([]Value, error) {
	i := slices.Index(t.Header, name)
	if i < 0 {
		return nil, errors.Reason("no column '%s' in %v", name, t.Header)
	}
	col := make([]Value, len(t.Rows))
	for j, r := range t.Rows {
		if i < len(r) {
			col[j] = r[i]
		}
	}
	return col, nil
}

// Params are parameters for pretty-printing or CSV export of Table data.
type Params struct {
	Rows        int  // max. number of rows to write; 0 = unlimited (default)
	NoHeader    bool // whether to print the header, default - yes
	MaxColWidth int  // for WriteText only; 0 = unlimited, otherwise must be >= 4
}

// lines returns the header (unless disabled) and up to p.Rows formatted rows.
func (t *Table) lines(p Params) (header []string, rows [][]string) {
	if !p.NoHeader && len(t.Header) > 0 {
		header = t.Header
	}
	for i, r := range t.Rows {
		if p.Rows > 0 && i >= p.Rows {
			break
		}
		rows = append(rows, r.Strings())
	}
	return
}

// WriteCSV writes the table to w in CSV format.
func (t *Table) WriteCSV(w io.Writer, p Params) error {
	header, rows := t.lines(p)
	cw := csv.NewWriter(w)
	if header != nil {
		if err := cw.Write(header); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return errors.Annotate(err, "failed to write rows")
	}
	return nil
}

// WriteText writes the table as right-aligned text columns for ease of
// reading. Cells wider than p.MaxColWidth are trimmed with "..".
func (t *Table) WriteText(w io.Writer, p Params) error {
	if p.MaxColWidth != 0 && p.MaxColWidth < 4 {
		return errors.Reason("MaxColWidth [%d] must be 0 or >= 4", p.MaxColWidth)
	}
	header, rows := t.lines(p)
	all := rows
	if header != nil {
		all = append([][]string{header}, rows...)
	}
	if len(all) == 0 {
		return nil
	}

	widths := make([]int, len(all[0]))
	for i, row := range all {
		if len(row) != len(widths) {
			return errors.Reason("row %d size [%d] != expected size [%d]",
				i, len(row), len(widths))
		}
		for j, s := range row {
			if n := len([]rune(s)); n > widths[j] {
				widths[j] = n
			}
		}
	}
	if p.MaxColWidth > 0 {
		for j := range widths {
			if widths[j] > p.MaxColWidth {
				widths[j] = p.MaxColWidth
			}
		}
	}

	write := func(row []string) error {
		cells := make([]string, len(row))
		for j, s := range row {
			if r := []rune(s); len(r) > widths[j] {
				s = string(r[:widths[j]-2]) + ".."
			}
			cells[j] = fmt.Sprintf("%[2]*[1]s", s, widths[j])
		}
		_, err := fmt.Fprintf(w, "%s\n", strings.Join(cells, " | "))
		return err
	}

	if header != nil {
		dashes := make([]string, len(widths))
		for j, n := range widths {
			dashes[j] = strings.Repeat("-", n)
		}
		if err := write(header); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
		if err := write(dashes); err != nil {
			return errors.Annotate(err, "failed to write header separator")
		}
	}
	for _, row := range rows {
		if err := write(row); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	return nil
}
