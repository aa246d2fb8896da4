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
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// numeric converts a numeric cell to float64.
func numeric(v Value) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// Describe summarizes the numeric columns of t: the number of non-null
// numeric samples, their mean, standard deviation, min and max. Columns without
// numeric values are skipped.
func Describe(t *Table) *Table {
	res := NewTable("Column", "Count", "Mean", "Std", "Min", "Max")
	for i, name := range t.Header {
		var xs []float64
		for _, r := range t.Rows {
			if i >= len(r) {
				continue
			}
			if x, ok := numeric(r[i]); ok && !math.IsNaN(x) {
				xs = append(xs, x)
			}
		}
		if len(xs) == 0 {
			continue
		}
		mean, std := stat.MeanStdDev(xs, nil)
		if len(xs) < 2 {
			std = 0
		}
		res.AddRow(Row{name, int64(len(xs)), mean, std, floats.Min(xs), floats.Max(xs)})
	}
	return res
}
