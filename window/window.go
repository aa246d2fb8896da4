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


// Package window resolves a partially specified time interval into an
// absolute one.
//
// All times are naive: the wall clock of a time.Time is kept and its location
// is dropped (see Naive). The current time, when needed, is sampled from the
// local clock and made naive the same way.
package window

import (
	"time"

	"github.com/stockparfait/errors"
)

// Window is the absolute time interval of the requested data. Start <= End is
// guaranteed for a Window produced by Spec.Build.
type Window struct {
	Start time.Time
	End   time.Time
}

const timeLayout = "2006-01-02 15:04:05"

// String representation of the window.
func (w Window) String() string {
	return "[" + w.Start.Format(timeLayout) + ", " + w.End.Format(timeLayout) + "]"
}

// Duration of the window.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Naive returns the wall clock of t reinterpreted in UTC, dropping its
// location and any monotonic clock reading.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(),
		t.Second(), t.Nanosecond(), time.UTC)
}

// now is the local clock. It may be overwritten in tests.
var now = time.Now

// ParseTime parses a naive date or date-time string.
func ParseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Reason("failed to parse time '%s'", s)
}

// Spec is a partially specified window. Any subset of the fields may be set;
// Build resolves them in a fixed order of precedence.
//
// A typical use:
//   w, err := window.NewSpec().EndAt(end).WithLength(window.Months(3)).Build()
type Spec struct {
	Start  *time.Time
	End    *time.Time
	Length *Length
}

// NewSpec creates an empty Spec.
func NewSpec() *Spec {
	return &Spec{}
}

// StartAt sets the start time.
func (s *Spec) StartAt(t time.Time) *Spec {
	s.Start = &t
	return s
}

// EndAt sets the end time.
func (s *Spec) EndAt(t time.Time) *Spec {
	s.End = &t
	return s
}

// WithLength sets the length of the window.
func (s *Spec) WithLength(l Length) *Spec {
	s.Length = &l
	return s
}

// Build resolves the spec into a Window. The first satisfied rule wins:
//
//   1. start and end: used as is (the length is ignored);
//   2. start and length: end = start + length;
//   3. end and length: start = end - length;
//   4. length only: end = now, start = end - length.
//
// Anything else is an error, as is a resulting window with start after end.
func (s *Spec) Build() (Window, error) {
	var w Window
	switch {
	case s.Start != nil && s.End != nil:
		w = Window{Start: Naive(*s.Start), End: Naive(*s.End)}
	case s.Start != nil && s.Length != nil:
		start := Naive(*s.Start)
		w = Window{Start: start, End: s.Length.After(start)}
	case s.End != nil && s.Length != nil:
		end := Naive(*s.End)
		w = Window{Start: s.Length.Before(end), End: end}
	case s.Length != nil:
		end := Naive(now())
		w = Window{Start: s.Length.Before(end), End: end}
	default:
		return Window{}, errors.Reason(
			"missing window parameters: need start and end, or a length")
	}
	if w.Start.After(w.End) {
		return Window{}, errors.Reason("invalid range: start %s is after end %s",
			w.Start.Format(timeLayout), w.End.Format(timeLayout))
	}
	return w, nil
}
