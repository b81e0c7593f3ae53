package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a fixed-width identifier derived from content.
// It is used for cache keys where a deterministic mapping from
// a string tuple to a key is needed.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces the identical ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// VideoRecord describes one video returned by the catalog for a keyword.
// Immutable once created.
type VideoRecord struct {
	VideoID      string
	Title        string
	ChannelTitle string
	Duration     string // raw ISO-8601 duration as reported by the catalog, e.g. "PT1H2M10S"
	DurationSecs int    // Duration parsed to seconds, 0 if unparsable
	ViewCount    int64
	PublishedAt  time.Time
	ThumbnailURL string
}

// WatchURL returns the base watch link for the video.
func (v *VideoRecord) WatchURL() string {
	return "https://youtube.com/watch?v=" + v.VideoID
}

// DeepLink returns the watch link positioned at the given offset in seconds.
func (v *VideoRecord) DeepLink(seconds int) string {
	return v.WatchURL() + "&t=" + strconv.Itoa(seconds)
}

// DurationDisplay returns a human-readable rendering of the duration,
// e.g. "1:02:10" or "5:30". Returns "" when the duration is unknown.
func (v *VideoRecord) DurationDisplay() string {
	if v.DurationSecs <= 0 {
		return ""
	}
	return FormatDuration(v.DurationSecs)
}

// TranscriptSegment is one timestamped unit of transcript text.
// Segments are ordered by Start within a video; that ordering is a
// precondition for context-window extraction, not enforced here.
type TranscriptSegment struct {
	Text     string
	Start    float64 // offset from the beginning of the video, seconds
	Duration float64 // seconds
}

// Clip is a query-relevant transcript excerpt enriched with a deep link.
// Clips are produced per analysis request and never persisted.
type Clip struct {
	VideoID    string
	VideoTitle string
	Content    string
	Timestamp  string // "MM:SS"
	Relevance  float64
	DeepLink   string
}

// Analysis is the outcome of one question asked against a session:
// ranked clips plus the synthesized answer.
type Analysis struct {
	Clips      []Clip
	Answer     string
	Confidence float64 // 0 when the answer did not come from clip context
}

// Session is the bounded-lifetime aggregate of one keyword search:
// the videos the catalog returned, in catalog order, and whatever
// transcripts could be fetched for them. A video id appears in
// Transcripts only if it also appears in Videos.
//
// Sessions are owned by a session.Store; callers must not mutate a
// session outside the store's API.
type Session struct {
	ID           string
	Keyword      string
	CreatedAt    time.Time
	LastAccessed time.Time
	Videos       []VideoRecord
	Transcripts  map[string][]TranscriptSegment
}

// AddVideo appends a video to the session, recording its transcript
// segments when any are available.
func (s *Session) AddVideo(video VideoRecord, segments []TranscriptSegment) {
	s.Videos = append(s.Videos, video)
	if len(segments) > 0 {
		s.Transcripts[video.VideoID] = segments
	}
}

// Segments returns the transcript segments recorded for a video,
// or nil when no transcript is available.
func (s *Session) Segments(videoID string) []TranscriptSegment {
	return s.Transcripts[videoID]
}

// HasTranscripts reports whether at least one video in the session
// has transcript segments.
func (s *Session) HasTranscripts() bool {
	return len(s.Transcripts) > 0
}

// IsExpired reports whether the session has been inactive longer than ttl.
func (s *Session) IsExpired(ttl time.Duration) bool {
	return time.Since(s.LastAccessed) > ttl
}
