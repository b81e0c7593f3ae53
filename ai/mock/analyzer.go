package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/clipfind/ai"
	"github.com/poiesic/clipfind/core"
)

// Analyzer is a test double for ai.RelevanceAnalyzer.
// It allows custom behavior injection via function fields.
type Analyzer struct {
	// ScoreRelevanceFunc is called by ScoreRelevance if set.
	// If nil, uses default word-overlap scoring.
	ScoreRelevanceFunc func(ctx context.Context, query string, video core.VideoRecord, segments []core.TranscriptSegment) (*ai.ClipFinding, error)

	mu        sync.Mutex
	callCount int
}

// NewAnalyzer creates a mock relevance analyzer with default behavior.
// Note: Returns concrete type to allow test assertions via call counts.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// ScoreRelevance returns the first segment sharing a word with the query,
// scored 0.5, or nil when no segment overlaps. Concurrency-safe because
// the ranker fans scoring out across goroutines.
func (m *Analyzer) ScoreRelevance(ctx context.Context, query string, video core.VideoRecord, segments []core.TranscriptSegment) (*ai.ClipFinding, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ScoreRelevanceFunc != nil {
		return m.ScoreRelevanceFunc(ctx, query, video, segments)
	}

	words := strings.Fields(strings.ToLower(query))
	for _, segment := range segments {
		text := strings.ToLower(segment.Text)
		for _, word := range words {
			if word != "" && strings.Contains(text, word) {
				return &ai.ClipFinding{
					Content:   segment.Text,
					Timestamp: core.FromSeconds(int(segment.Start)),
					Relevance: 0.5,
				}, nil
			}
		}
	}
	return nil, nil
}

// CallCount returns the number of times ScoreRelevance was called.
func (m *Analyzer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *Analyzer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ScoreRelevanceFunc = nil
}
