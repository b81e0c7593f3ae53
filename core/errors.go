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


package core

import "errors"

// Domain validation errors
var (
	// ErrMalformedTimestamp indicates a timestamp string that is not "MM:SS".
	ErrMalformedTimestamp = errors.New("malformed timestamp")

	// ErrInvalidDuration indicates an unparsable ISO-8601 duration string.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidVideoRecord indicates a VideoRecord failed validation.
	ErrInvalidVideoRecord = errors.New("invalid video record")

	// ErrEmptyVideoID indicates the VideoID field is empty.
	ErrEmptyVideoID = errors.New("video id cannot be empty")

	// ErrInvalidSegment indicates a TranscriptSegment failed validation.
	ErrInvalidSegment = errors.New("invalid transcript segment")

	// ErrNegativeOffset indicates a segment with a negative start offset.
	ErrNegativeOffset = errors.New("segment start offset cannot be negative")

	// ErrNegativeDuration indicates a segment with a negative duration.
	ErrNegativeDuration = errors.New("segment duration cannot be negative")

	// ErrRelevanceOutOfRange indicates a relevance score outside [0, 1].
	ErrRelevanceOutOfRange = errors.New("relevance must be between 0 and 1")
)
