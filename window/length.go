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


package window

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stockparfait/errors"
)

// Unit of a window Length.
type Unit int

// Values of Unit.
const (
	UnitSeconds Unit = iota
	UnitMinutes
	UnitHours
	UnitDays
	UnitWeeks
	UnitMonths
	UnitYears
)

// unitSuffixes are the textual unit names accepted by ParseLength.
var unitSuffixes = []struct {
	suffix string
	unit   Unit
}{
	{"min", UnitMinutes},
	{"mo", UnitMonths},
	{"s", UnitSeconds},
	{"h", UnitHours},
	{"d", UnitDays},
	{"w", UnitWeeks},
	{"y", UnitYears},
}

// String representation of the unit, as accepted by ParseLength.
func (u Unit) String() string {
	for _, s := range unitSuffixes {
		if s.unit == u {
			return s.suffix
		}
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// Length of a window as an integer multiple of a Unit.
//
// Months and years are not calendar-aware: a month is always 30 days, and a
// year is 365 days.
type Length struct {
	Unit Unit
	N    int64
}

func Seconds(n int64) Length { return Length{Unit: UnitSeconds, N: n} }
func Minutes(n int64) Length { return Length{Unit: UnitMinutes, N: n} }
func Hours(n int64) Length   { return Length{Unit: UnitHours, N: n} }
func Days(n int64) Length    { return Length{Unit: UnitDays, N: n} }
func Weeks(n int64) Length   { return Length{Unit: UnitWeeks, N: n} }
func Months(n int64) Length  { return Length{Unit: UnitMonths, N: n} }
func Years(n int64) Length   { return Length{Unit: UnitYears, N: n} }

// String representation of the length, e.g. "3mo".
func (l Length) String() string {
	return fmt.Sprintf("%d%s", l.N, l.Unit)
}

// days returns the number of whole days for the day-based units, and false for
// the sub-day units.
func (l Length) days() (int64, bool) {
	switch l.Unit {
	case UnitDays:
		return l.N, true
	case UnitWeeks:
		return 7 * l.N, true
	case UnitMonths:
		return 30 * l.N, true
	case UnitYears:
		return 365 * l.N, true
	}
	return 0, false
}

// shift moves t by the length forward (sign > 0) or backward (sign < 0). Day
// based units go through AddDate so that long lengths don't overflow
// time.Duration; for a naive (UTC) t a day is always exactly 24 hours.
func (l Length) shift(t time.Time, sign int64) time.Time {
	if d, ok := l.days(); ok {
		return t.AddDate(0, 0, int(sign*d))
	}
	var unit time.Duration
	switch l.Unit {
	case UnitSeconds:
		unit = time.Second
	case UnitMinutes:
		unit = time.Minute
	case UnitHours:
		unit = time.Hour
	}
	return t.Add(time.Duration(sign*l.N) * unit)
}

// After returns t + l.
func (l Length) After(t time.Time) time.Time { return l.shift(t, 1) }

// Before returns t - l.
func (l Length) Before(t time.Time) time.Time { return l.shift(t, -1) }

// ParseLength parses a textual length such as "30s", "15min", "2h", "5d",
// "2w", "3mo" or "1y". The number must be non-negative.
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return Length{}, errors.Reason("length '%s' must start with a number", s)
	}
	n, err := strconv.ParseInt(s[:i], 10, 64)
	if err != nil {
		return Length{}, errors.Annotate(err, "invalid number in length '%s'", s)
	}
	suffix := s[i:]
	for _, u := range unitSuffixes {
		if suffix == u.suffix {
			return Length{Unit: u.unit, N: n}, nil
		}
	}
	return Length{}, errors.Reason(
		"unknown unit '%s' in length '%s'; expected one of s, min, h, d, w, mo, y",
		suffix, s)
}
