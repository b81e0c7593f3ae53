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


// Package session provides the time-bounded session store and its reaper.
//
// A Store maps opaque random ids to sessions and is the only object
// shared between independent top-level requests; all mutation goes
// through its synchronized API. Sessions expire after a configurable
// inactivity TTL (one hour by default). Expiry is enforced twice:
// opportunistically on access via GetActive, and periodically by the
// Reaper, so the store does not grow without bound on idle processes.
//
// Between reaper passes the store can hold expired sessions; that is an
// accepted trade-off, bounded by the reap interval.
package session
