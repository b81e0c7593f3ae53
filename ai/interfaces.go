package ai

import (
	"context"

	"github.com/poiesic/clipfind/core"
)

// RelevanceAnalyzer scores a video's transcript against a question.
// Implementations must be thread-safe for concurrent use.
type RelevanceAnalyzer interface {
	// ScoreRelevance analyzes the transcript segments of one video and
	// returns the single most relevant excerpt, its "MM:SS" timestamp,
	// and a relevance score in [0, 1].
	// Returns nil (not an error) when no segment is relevant to the query.
	// Returns an error if the analysis call fails.
	ScoreRelevance(ctx context.Context, query string, video core.VideoRecord, segments []core.TranscriptSegment) (*ClipFinding, error)
}

// AnswerGenerator synthesizes a final answer to a question.
// Implementations must be thread-safe for concurrent use.
type AnswerGenerator interface {
	// SynthesizeAnswer produces an answer to the query from the supplied
	// transcript context. An empty contextText is a valid input meaning
	// "answer from general knowledge only".
	// Returns an Answer with an empty Summary when the model yields nothing.
	// Returns an error if the generation call fails.
	SynthesizeAnswer(ctx context.Context, query, contextText string) (Answer, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages RelevanceAnalyzer and AnswerGenerator instances,
// ensuring they share configuration and resources appropriately.
type Provider interface {
	// RelevanceAnalyzer returns the transcript relevance scoring service.
	// The returned RelevanceAnalyzer is safe for concurrent use.
	RelevanceAnalyzer() RelevanceAnalyzer

	// AnswerGenerator returns the answer synthesis service.
	// The returned AnswerGenerator is safe for concurrent use.
	AnswerGenerator() AnswerGenerator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
