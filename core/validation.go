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

import "fmt"

// ValidateVideoRecord validates a VideoRecord decoded at the catalog boundary.
//
// Validation rules:
//   - VideoID must not be empty
//   - ViewCount must not be negative
//
// NOT validated:
//   - Title/ChannelTitle (upstream occasionally omits them)
//   - Duration (unparsable durations degrade to DurationSecs == 0)
func ValidateVideoRecord(record *VideoRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidVideoRecord)
	}

	if record.VideoID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVideoRecord, ErrEmptyVideoID)
	}

	if record.ViewCount < 0 {
		return fmt.Errorf("%w: negative view count", ErrInvalidVideoRecord)
	}

	return nil
}

// ValidateSegment validates a TranscriptSegment decoded at the transcript
// provider boundary.
//
// Validation rules:
//   - Start must not be negative
//   - Duration must not be negative
func ValidateSegment(segment *TranscriptSegment) error {
	if segment == nil {
		return fmt.Errorf("%w: segment is nil", ErrInvalidSegment)
	}

	if segment.Start < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSegment, ErrNegativeOffset)
	}

	if segment.Duration < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSegment, ErrNegativeDuration)
	}

	return nil
}

// ValidateRelevance checks that a relevance score returned by the
// relevance analyzer is within [0, 1].
func ValidateRelevance(relevance float64) error {
	if relevance < 0 || relevance > 1 {
		return fmt.Errorf("%w: %v", ErrRelevanceOutOfRange, relevance)
	}
	return nil
}
