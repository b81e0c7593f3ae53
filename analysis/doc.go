// Package analysis scores session content against a question and
// synthesizes an answer from the best matches.
//
// The Ranker fans relevance scoring out over a worker pool, one call per
// video with transcripts, and orders the resulting clips by relevance.
// The Synthesizer extracts a bounded transcript window around each clip
// and degrades gracefully: grounded answer, then general knowledge, then
// a fixed fallback string.
package analysis
