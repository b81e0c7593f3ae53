package video

import (
	"context"

	"github.com/poiesic/clipfind/core"
)

// CatalogProvider turns a search keyword into a ranked list of videos
// with basic metadata. Implementations must be thread-safe.
type CatalogProvider interface {
	// Search returns up to maxResults videos for the keyword, in the
	// catalog's relevance order. An empty result is not an error.
	Search(ctx context.Context, keyword string, maxResults int) ([]core.VideoRecord, error)
}

// TranscriptProvider retrieves the transcript of a single video.
// Implementations must be thread-safe.
type TranscriptProvider interface {
	// Fetch returns the video's transcript segments ordered by start
	// offset, preferring preferredLanguage when available.
	// Returns (nil, nil) when the video has no transcript; absence is
	// not an error.
	Fetch(ctx context.Context, videoID, preferredLanguage string) ([]core.TranscriptSegment, error)
}
