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


package video

import "errors"

var (
	// ErrCatalogUnavailable indicates the catalog could not be reached
	// even after retries. Fatal to session creation.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrTranscriptFetchFailed indicates a transcript fetch failed for
	// one video. Recovered locally; the video is kept with no segments.
	ErrTranscriptFetchFailed = errors.New("transcript fetch failed")
)
