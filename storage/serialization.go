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


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/clipfind/core"
)

// transcriptSegmentMUS is the MUS serializer for one transcript segment.
type transcriptSegmentMUS struct{}

// TranscriptSegmentMUS serializes a core.TranscriptSegment.
var TranscriptSegmentMUS = transcriptSegmentMUS{}

func (transcriptSegmentMUS) Marshal(s core.TranscriptSegment, bs []byte) (n int) {
	n = ord.String.Marshal(s.Text, bs)
	n += raw.Float64.Marshal(s.Start, bs[n:])
	n += raw.Float64.Marshal(s.Duration, bs[n:])
	return
}

func (transcriptSegmentMUS) Unmarshal(bs []byte) (s core.TranscriptSegment, n int, err error) {
	s.Text, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	s.Start, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	s.Duration, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	return
}

func (transcriptSegmentMUS) Size(s core.TranscriptSegment) (size int) {
	size = ord.String.Size(s.Text)
	size += raw.Float64.Size(s.Start)
	size += raw.Float64.Size(s.Duration)
	return
}

// MarshalSegments serializes a transcript to bytes: a varint count
// followed by the segments.
func MarshalSegments(segments []core.TranscriptSegment) []byte {
	size := varint.Int.Size(len(segments))
	for i := range segments {
		size += TranscriptSegmentMUS.Size(segments[i])
	}

	bs := make([]byte, size)
	n := varint.Int.Marshal(len(segments), bs)
	for i := range segments {
		n += TranscriptSegmentMUS.Marshal(segments[i], bs[n:])
	}
	return bs
}

// UnmarshalSegments deserializes a transcript from bytes.
func UnmarshalSegments(data []byte) ([]core.TranscriptSegment, error) {
	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative segment count", ErrSerializationFailed)
	}

	segments := make([]core.TranscriptSegment, 0, count)
	for i := 0; i < count; i++ {
		segment, n1, err := TranscriptSegmentMUS.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: segment %d: %w", ErrSerializationFailed, i, err)
		}
		n += n1
		segments = append(segments, segment)
	}
	return segments, nil
}

// CacheKeyID derives the fixed-width cache key for a (videoID, language)
// pair via content hashing.
func CacheKeyID(videoID, language string) core.ID {
	return core.IDFromContent(videoID + ":" + language)
}
