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


// Package youtube implements the video interfaces over YouTube:
// the Data API v3 for catalog search and the timedtext endpoint for
// caption transcripts.
//
// Both clients take a shared Config; base URLs are overridable so tests
// can point them at an httptest server.
package youtube
