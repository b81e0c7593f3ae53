package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/clipfind/ai"
	"github.com/poiesic/clipfind/ai/mock"
	"github.com/poiesic/clipfind/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func windowSession() *core.Session {
	// Segments spread across 0-180s; the clip at 01:00 should pick up
	// everything between 0s and 120s.
	return &core.Session{
		ID:     "sess-1",
		Videos: []core.VideoRecord{{VideoID: "vidA", Title: "Go Concurrency"}},
		Transcripts: map[string][]core.TranscriptSegment{
			"vidA": {
				{Text: "intro", Start: 0, Duration: 10},
				{Text: "channels explained", Start: 55, Duration: 10},
				{Text: "select statement", Start: 65, Duration: 10},
				{Text: "goodbye", Start: 170, Duration: 10},
			},
		},
	}
}

func TestSynthesize_GroundedAnswer(t *testing.T) {
	generator := mock.NewGenerator()
	generator.SynthesizeAnswerFunc = func(ctx context.Context, query, contextText string) (ai.Answer, error) {
		return ai.Answer{Summary: "grounded", Confidence: 0.8}, nil
	}

	synth, err := NewSynthesizer(generator, WithSynthRetryPolicy(fastPolicy()))
	require.NoError(t, err)

	clips := []core.Clip{{VideoID: "vidA", VideoTitle: "Go Concurrency", Timestamp: "01:00", Relevance: 0.9}}
	answer := synth.Synthesize(context.Background(), windowSession(), "how do channels work", clips)

	assert.Equal(t, "grounded", answer.Summary)
	assert.InDelta(t, 0.8, answer.Confidence, 1e-9)
	assert.Equal(t, 1, generator.CallCount())
}

func TestSynthesize_ContextWindowBounds(t *testing.T) {
	generator := mock.NewGenerator()
	generator.SynthesizeAnswerFunc = func(ctx context.Context, query, contextText string) (ai.Answer, error) {
		return ai.Answer{Summary: "ok", Confidence: 0.5}, nil
	}

	synth, err := NewSynthesizer(generator, WithSynthRetryPolicy(fastPolicy()))
	require.NoError(t, err)

	clips := []core.Clip{{VideoID: "vidA", VideoTitle: "Go Concurrency", Timestamp: "01:00", Relevance: 0.9}}
	synth.Synthesize(context.Background(), windowSession(), "how do channels work", clips)

	got := generator.LastContext()
	assert.Contains(t, got, "[Go Concurrency @ 01:00]")
	// Within ±60s of offset 60.
	assert.Contains(t, got, "intro")
	assert.Contains(t, got, "channels explained")
	assert.Contains(t, got, "select statement")
	// 170s is outside the window.
	assert.NotContains(t, got, "goodbye")
}

func TestSynthesize_EmptyClipsUsesKnowledgeOnly(t *testing.T) {
	generator := mock.NewGenerator()
	generator.SynthesizeAnswerFunc = func(ctx context.Context, query, contextText string) (ai.Answer, error) {
		if contextText != "" {
			return ai.Answer{}, errors.New("unexpected grounded call")
		}
		return ai.Answer{Summary: "from general knowledge", Confidence: 0.3}, nil
	}

	synth, err := NewSynthesizer(generator, WithSynthRetryPolicy(fastPolicy()))
	require.NoError(t, err)

	answer := synth.Synthesize(context.Background(), windowSession(), "how do channels work", nil)

	assert.Equal(t, "from general knowledge", answer.Summary)
	assert.Equal(t, "", generator.LastContext())
	assert.Equal(t, 1, generator.CallCount())
}

func TestSynthesize_GroundedFailureFallsBackToKnowledge(t *testing.T) {
	generator := mock.NewGenerator()
	generator.SynthesizeAnswerFunc = func(ctx context.Context, query, contextText string) (ai.Answer, error) {
		if contextText != "" {
			return ai.Answer{}, errors.New("model overloaded")
		}
		return ai.Answer{Summary: "knowledge answer", Confidence: 0.4}, nil
	}

	synth, err := NewSynthesizer(generator, WithSynthRetryPolicy(fastPolicy()))
	require.NoError(t, err)

	clips := []core.Clip{{VideoID: "vidA", VideoTitle: "Go Concurrency", Timestamp: "01:00", Relevance: 0.9}}
	answer := synth.Synthesize(context.Background(), windowSession(), "how do channels work", clips)

	assert.Equal(t, "knowledge answer", answer.Summary)
}

func TestSynthesize_EmptySummaryTriggersFallbackStage(t *testing.T) {
	generator := mock.NewGenerator()
	generator.SynthesizeAnswerFunc = func(ctx context.Context, query, contextText string) (ai.Answer, error) {
		if contextText != "" {
			return ai.Answer{Summary: "   "}, nil
		}
		return ai.Answer{Summary: "knowledge answer", Confidence: 0.4}, nil
	}

	synth, err := NewSynthesizer(generator, WithSynthRetryPolicy(fastPolicy()))
	require.NoError(t, err)

	clips := []core.Clip{{VideoID: "vidA", VideoTitle: "Go Concurrency", Timestamp: "01:00", Relevance: 0.9}}
	answer := synth.Synthesize(context.Background(), windowSession(), "how do channels work", clips)

	assert.Equal(t, "knowledge answer", answer.Summary)
}

func TestSynthesize_BothStagesFailReturnsFixedFallback(t *testing.T) {
	generator := mock.NewGenerator()
	generator.SynthesizeAnswerFunc = func(ctx context.Context, query, contextText string) (ai.Answer, error) {
		return ai.Answer{}, errors.New("model unavailable")
	}

	synth, err := NewSynthesizer(generator, WithSynthRetryPolicy(fastPolicy()))
	require.NoError(t, err)

	clips := []core.Clip{{VideoID: "vidA", VideoTitle: "Go Concurrency", Timestamp: "01:00", Relevance: 0.9}}
	answer := synth.Synthesize(context.Background(), windowSession(), "how do channels work", clips)

	assert.Equal(t, DefaultFallbackAnswer, answer.Summary)
	assert.Zero(t, answer.Confidence)
}

func TestSynthesize_CustomFallbackAnswer(t *testing.T) {
	generator := mock.NewGenerator()
	generator.SynthesizeAnswerFunc = func(ctx context.Context, query, contextText string) (ai.Answer, error) {
		return ai.Answer{}, errors.New("model unavailable")
	}

	synth, err := NewSynthesizer(generator,
		WithSynthRetryPolicy(fastPolicy()),
		WithFallbackAnswer("nothing found"))
	require.NoError(t, err)

	answer := synth.Synthesize(context.Background(), nil, "question", nil)
	assert.Equal(t, "nothing found", answer.Summary)
}

func TestSynthesize_MultipleClipsProduceLabeledBlocks(t *testing.T) {
	sess := windowSession()
	sess.Videos = append(sess.Videos, core.VideoRecord{VideoID: "vidB", Title: "Go Memory Model"})
	sess.Transcripts["vidB"] = []core.TranscriptSegment{
		{Text: "happens before", Start: 30, Duration: 10},
	}

	generator := mock.NewGenerator()
	generator.SynthesizeAnswerFunc = func(ctx context.Context, query, contextText string) (ai.Answer, error) {
		return ai.Answer{Summary: "ok", Confidence: 0.5}, nil
	}

	synth, err := NewSynthesizer(generator, WithSynthRetryPolicy(fastPolicy()))
	require.NoError(t, err)

	clips := []core.Clip{
		{VideoID: "vidA", VideoTitle: "Go Concurrency", Timestamp: "01:00", Relevance: 0.9},
		{VideoID: "vidB", VideoTitle: "Go Memory Model", Timestamp: "00:30", Relevance: 0.7},
	}
	synth.Synthesize(context.Background(), sess, "question", clips)

	blocks := strings.Split(generator.LastContext(), "\n\n")
	require.Len(t, blocks, 2)
	assert.Contains(t, blocks[0], "Go Concurrency")
	assert.Contains(t, blocks[1], "Go Memory Model")
	assert.Contains(t, blocks[1], "happens before")
}
