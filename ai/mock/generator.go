package mock

import (
	"context"
	"sync"

	"github.com/poiesic/clipfind/ai"
)

// Generator is a test double for ai.AnswerGenerator.
// It allows custom behavior injection via function fields.
type Generator struct {
	// SynthesizeAnswerFunc is called by SynthesizeAnswer if set.
	// If nil, uses a canned answer that records whether context was supplied.
	SynthesizeAnswerFunc func(ctx context.Context, query, contextText string) (ai.Answer, error)

	mu        sync.Mutex
	callCount int
	lastQuery string
	lastCtx   string
}

// NewGenerator creates a mock answer generator with default behavior.
// Note: Returns concrete type to allow test assertions via call counts.
func NewGenerator() *Generator {
	return &Generator{}
}

// SynthesizeAnswer returns a canned answer. With context it answers
// "grounded answer for: <query>" at confidence 0.8; without context,
// "general knowledge answer for: <query>" at confidence 0.3.
func (m *Generator) SynthesizeAnswer(ctx context.Context, query, contextText string) (ai.Answer, error) {
	m.mu.Lock()
	m.callCount++
	m.lastQuery = query
	m.lastCtx = contextText
	m.mu.Unlock()

	if m.SynthesizeAnswerFunc != nil {
		return m.SynthesizeAnswerFunc(ctx, query, contextText)
	}

	if contextText == "" {
		return ai.Answer{Summary: "general knowledge answer for: " + query, Confidence: 0.3}, nil
	}
	return ai.Answer{Summary: "grounded answer for: " + query, Confidence: 0.8}, nil
}

// CallCount returns the number of times SynthesizeAnswer was called.
func (m *Generator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastContext returns the contextText passed to the most recent call.
func (m *Generator) LastContext() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCtx
}

// LastQuery returns the query passed to the most recent call.
func (m *Generator) LastQuery() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastQuery
}

// Reset clears the call count, recorded arguments, and custom functions.
func (m *Generator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastQuery = ""
	m.lastCtx = ""
	m.SynthesizeAnswerFunc = nil
}
