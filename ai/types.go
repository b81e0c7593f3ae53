package ai

// ClipFinding is the raw outcome of scoring one video's transcript
// against a query, before it is turned into a core.Clip.
type ClipFinding struct {
	// Content is the relevant transcript excerpt.
	Content string

	// Timestamp is the "MM:SS" offset of the excerpt within the video.
	Timestamp string

	// Relevance is the analyzer's confidence that the excerpt answers
	// the query, from 0.0 (unrelated) to 1.0 (direct answer).
	Relevance float64
}

// Answer is a synthesized response to a query.
type Answer struct {
	// Summary is the answer text. Empty means the model yielded nothing.
	Summary string

	// Confidence is the model's self-assessed confidence in the answer,
	// from 0.0 to 1.0. Zero when the model did not report one.
	Confidence float64
}
