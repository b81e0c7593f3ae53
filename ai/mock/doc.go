// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package mock provides test doubles for the ai interfaces.
//
// Each mock accepts a function field to inject custom behavior and records
// call counts for assertions.
//
// # Default Behavior
//
//   - Analyzer: returns the first segment sharing a word with the query
//   - Generator: returns a canned answer that reflects whether context was supplied
//   - Provider: aggregates mock analyzer and generator
package mock
