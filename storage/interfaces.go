package storage

import (
	"context"

	"github.com/poiesic/clipfind/core"
)

// TranscriptCache caches fetched transcripts across sessions.
// Transcripts are immutable upstream, so cached entries only ever age
// out; they are never invalidated by writes.
// Implementations must be thread-safe and support concurrent access.
type TranscriptCache interface {
	// Get returns the cached segments for a (videoID, language) pair.
	// found is false on a miss; a miss is not an error.
	Get(ctx context.Context, videoID, language string) (segments []core.TranscriptSegment, found bool, err error)

	// Put caches the segments for a (videoID, language) pair. Entries
	// expire after the backend's retention period.
	Put(ctx context.Context, videoID, language string, segments []core.TranscriptSegment) error

	// Close closes the cache backend and releases resources.
	Close() error
}
