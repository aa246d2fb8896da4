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


// Package moabdb is a client of the MoabDB historical and intraday equity data
// service.
//
// A request covers one symbol over a time window, built with the window
// package:
//
//   w, err := window.NewSpec().WithLength(window.Months(3)).Build()
//   ...
//   t, err := moabdb.GetEquity(ctx, "AAPL", w, false, nil)
//
// Every call makes exactly one GET request to the service, with the serialized
// request in a single header (see the protocol package). The service responds
// with its own status code and, on success, a Parquet payload which is decoded
// into a table.Table. There are no retries and no caching; the package holds no
// mutable state, and calls may be made concurrently.
//
// Failures are reported as one of the Error values. The cause of a failure is
// logged with the logger from the context, if any.
package moabdb
