package web

import "time"

// searchRequest is the body of POST /search.
type searchRequest struct {
	Keyword    string `json:"keyword"`
	MaxResults int    `json:"max_results"`
}

// videoInfo is one catalog entry in a search response.
type videoInfo struct {
	VideoID      string    `json:"video_id"`
	Title        string    `json:"title"`
	ChannelTitle string    `json:"channel_title"`
	Duration     string    `json:"duration"`
	ViewCount    int64     `json:"view_count"`
	PublishedAt  time.Time `json:"published_at"`
	ThumbnailURL string    `json:"thumbnail_url"`
	HasSubtitles bool      `json:"has_subtitles"`
	WatchURL     string    `json:"watch_url"`
}

// searchResponse is the body of a successful POST /search.
type searchResponse struct {
	SessionID string      `json:"session_id"`
	Keyword   string      `json:"keyword"`
	Videos    []videoInfo `json:"videos"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// analyzeRequest is the body of POST /sessions/{id}/analyze.
type analyzeRequest struct {
	Query string `json:"query"`
}

// videoClip is one ranked excerpt in an analysis response.
type videoClip struct {
	VideoID    string  `json:"video_id"`
	VideoTitle string  `json:"video_title"`
	Content    string  `json:"content"`
	Timestamp  string  `json:"timestamp"`
	Relevance  float64 `json:"relevance"`
	URL        string  `json:"url"`
}

// analyzeResponse is the body of a successful POST /sessions/{id}/analyze.
type analyzeResponse struct {
	Clips      []videoClip `json:"clips"`
	TotalClips int         `json:"total_clips"`
	Answer     string      `json:"answer"`
	Confidence float64     `json:"confidence"`
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Detail string `json:"detail"`
}
