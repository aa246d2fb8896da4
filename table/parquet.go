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


package table

import (
	"bytes"
	"io"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/stockparfait/errors"
)

// parquetBatch is the number of rows read from a file at a time.
const parquetBatch = 1024

// parquetValue converts a parquet cell to a table Value.
func parquetValue(v parquet.Value) Value {
	if v.IsNull() {
		return nil
	}
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		return int64(v.Int32())
	case parquet.Int64:
		return v.Int64()
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	}
	return v.String()
}

// columnNames appends the dot-joined paths of the leaf columns under node, in
// the order of their column indices.
func columnNames(node parquet.Node, path []string, names []string) []string {
	if node.Leaf() {
		return append(names, strings.Join(path, "."))
	}
	for _, f := range node.Fields() {
		names = columnNames(f, append(path[:len(path):len(path)], f.Name()), names)
	}
	return names
}

// ReadParquet decodes a Parquet file held in memory into a Table. Column names
// are the dot-joined paths of the leaf columns. Only flat schemas are
// supported: a repeated column is an error.
func ReadParquet(data []byte) (*Table, error) {
	f, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Annotate(err, "failed to open Parquet data")
	}
	t := NewTable(columnNames(f.Schema(), nil, nil)...)
	for i, rg := range f.RowGroups() {
		if err := readRowGroup(t, rg); err != nil {
			return nil, errors.Annotate(err, "failed to read row group %d", i)
		}
	}
	return t, nil
}

func readRowGroup(t *Table, rg parquet.RowGroup) error {
	rows := rg.Rows()
	defer rows.Close()

	buf := make([]parquet.Row, parquetBatch)
	for {
		n, err := rows.ReadRows(buf)
		for _, pr := range buf[:n] {
			row := make(Row, len(t.Header))
			for _, v := range pr {
				c := v.Column()
				if c < 0 || c >= len(row) {
					return errors.Reason("column index %d out of range [0..%d)",
						c, len(row))
				}
				if v.RepetitionLevel() > 0 {
					return errors.Reason("repeated column '%s' is not supported",
						t.Header[c])
				}
				row[c] = parquetValue(v)
			}
			t.AddRow(row)
		}
		if err == io.EOF || (err == nil && n == 0) {
			return nil
		}
		if err != nil {
			return errors.Annotate(err, "failed to read rows")
		}
	}
}
