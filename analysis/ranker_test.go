package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/clipfind/ai"
	"github.com/poiesic/clipfind/ai/mock"
	"github.com/poiesic/clipfind/core"
	"github.com/poiesic/clipfind/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func testSession(videos ...string) *core.Session {
	sess := &core.Session{
		ID:          "sess-1",
		Keyword:     "golang",
		Transcripts: make(map[string][]core.TranscriptSegment),
	}
	for _, id := range videos {
		sess.Videos = append(sess.Videos, core.VideoRecord{VideoID: id, Title: "title " + id})
		sess.Transcripts[id] = []core.TranscriptSegment{
			{Text: "segment one for " + id, Start: 0, Duration: 5},
			{Text: "segment two for " + id, Start: 5, Duration: 5},
		}
	}
	return sess
}

func TestRank_OrdersByRelevance(t *testing.T) {
	findings := map[string]*ai.ClipFinding{
		"vidA": {Content: "a", Timestamp: "00:10", Relevance: 0.3},
		"vidB": {Content: "b", Timestamp: "01:00", Relevance: 0.9},
		"vidC": {Content: "c", Timestamp: "00:30", Relevance: 0.6},
	}
	analyzer := mock.NewAnalyzer()
	analyzer.ScoreRelevanceFunc = func(ctx context.Context, query string, video core.VideoRecord, segments []core.TranscriptSegment) (*ai.ClipFinding, error) {
		return findings[video.VideoID], nil
	}

	ranker, err := NewRanker(analyzer, WithRankRetryPolicy(fastPolicy()))
	require.NoError(t, err)
	defer ranker.Release()

	clips, err := ranker.Rank(context.Background(), testSession("vidA", "vidB", "vidC"), "question")
	require.NoError(t, err)
	require.Len(t, clips, 3)

	assert.Equal(t, "vidB", clips[0].VideoID)
	assert.Equal(t, "vidC", clips[1].VideoID)
	assert.Equal(t, "vidA", clips[2].VideoID)
}

func TestRank_TiesBreakByCatalogOrder(t *testing.T) {
	analyzer := mock.NewAnalyzer()
	analyzer.ScoreRelevanceFunc = func(ctx context.Context, query string, video core.VideoRecord, segments []core.TranscriptSegment) (*ai.ClipFinding, error) {
		return &ai.ClipFinding{Content: "tie", Timestamp: "00:30", Relevance: 0.5}, nil
	}

	ranker, err := NewRanker(analyzer, WithRankRetryPolicy(fastPolicy()))
	require.NoError(t, err)
	defer ranker.Release()

	clips, err := ranker.Rank(context.Background(), testSession("vidC", "vidA", "vidB"), "question")
	require.NoError(t, err)
	require.Len(t, clips, 3)

	// Equal relevance preserves catalog order, not lexical order.
	assert.Equal(t, "vidC", clips[0].VideoID)
	assert.Equal(t, "vidA", clips[1].VideoID)
	assert.Equal(t, "vidB", clips[2].VideoID)
}

func TestRank_BuildsDeepLinks(t *testing.T) {
	analyzer := mock.NewAnalyzer()
	analyzer.ScoreRelevanceFunc = func(ctx context.Context, query string, video core.VideoRecord, segments []core.TranscriptSegment) (*ai.ClipFinding, error) {
		return &ai.ClipFinding{Content: "found", Timestamp: "01:00", Relevance: 0.9}, nil
	}

	ranker, err := NewRanker(analyzer, WithRankRetryPolicy(fastPolicy()))
	require.NoError(t, err)
	defer ranker.Release()

	clips, err := ranker.Rank(context.Background(), testSession("vidA"), "question")
	require.NoError(t, err)
	require.Len(t, clips, 1)

	assert.Equal(t, "01:00", clips[0].Timestamp)
	assert.Equal(t, "https://youtube.com/watch?v=vidA&t=60", clips[0].DeepLink)
	assert.Equal(t, "title vidA", clips[0].VideoTitle)
}

func TestRank_NoTranscriptsSkipsAnalyzer(t *testing.T) {
	analyzer := mock.NewAnalyzer()
	analyzer.ScoreRelevanceFunc = func(ctx context.Context, query string, video core.VideoRecord, segments []core.TranscriptSegment) (*ai.ClipFinding, error) {
		return &ai.ClipFinding{Content: "x", Timestamp: "00:00", Relevance: 1}, nil
	}

	ranker, err := NewRanker(analyzer, WithRankRetryPolicy(fastPolicy()))
	require.NoError(t, err)
	defer ranker.Release()

	sess := &core.Session{
		ID:      "sess-1",
		Videos:  []core.VideoRecord{{VideoID: "vidA", Title: "no captions"}},
		Keyword: "golang",
	}

	clips, err := ranker.Rank(context.Background(), sess, "question")
	require.NoError(t, err)
	assert.Empty(t, clips)
	assert.Equal(t, 0, analyzer.CallCount())
}

func TestRank_IrrelevantVideoYieldsNoClip(t *testing.T) {
	analyzer := mock.NewAnalyzer()
	analyzer.ScoreRelevanceFunc = func(ctx context.Context, query string, video core.VideoRecord, segments []core.TranscriptSegment) (*ai.ClipFinding, error) {
		if video.VideoID == "vidB" {
			return nil, nil
		}
		return &ai.ClipFinding{Content: "hit", Timestamp: "00:05", Relevance: 0.7}, nil
	}

	ranker, err := NewRanker(analyzer, WithRankRetryPolicy(fastPolicy()))
	require.NoError(t, err)
	defer ranker.Release()

	clips, err := ranker.Rank(context.Background(), testSession("vidA", "vidB"), "question")
	require.NoError(t, err)
	require.Len(t, clips, 1)
	assert.Equal(t, "vidA", clips[0].VideoID)
}

func TestRank_ScoringFailureSkipsVideo(t *testing.T) {
	analyzer := mock.NewAnalyzer()
	analyzer.ScoreRelevanceFunc = func(ctx context.Context, query string, video core.VideoRecord, segments []core.TranscriptSegment) (*ai.ClipFinding, error) {
		if video.VideoID == "vidA" {
			return nil, errors.New("model unavailable")
		}
		return &ai.ClipFinding{Content: "hit", Timestamp: "00:05", Relevance: 0.7}, nil
	}

	ranker, err := NewRanker(analyzer, WithRankRetryPolicy(fastPolicy()))
	require.NoError(t, err)
	defer ranker.Release()

	clips, err := ranker.Rank(context.Background(), testSession("vidA", "vidB"), "question")
	require.NoError(t, err)
	require.Len(t, clips, 1)
	assert.Equal(t, "vidB", clips[0].VideoID)
}

func TestRank_ContractViolationNotRetried(t *testing.T) {
	analyzer := mock.NewAnalyzer()
	analyzer.ScoreRelevanceFunc = func(ctx context.Context, query string, video core.VideoRecord, segments []core.TranscriptSegment) (*ai.ClipFinding, error) {
		return nil, retry.Permanent(errors.New("analyzer contract violation: relevance must be between 0 and 1"))
	}

	ranker, err := NewRanker(analyzer, WithRankRetryPolicy(fastPolicy()))
	require.NoError(t, err)
	defer ranker.Release()

	clips, err := ranker.Rank(context.Background(), testSession("vidA"), "question")
	require.NoError(t, err)
	assert.Empty(t, clips)
	// Non-transient failures get exactly one attempt.
	assert.Equal(t, 1, analyzer.CallCount())
}

func TestRank_MalformedTimestampDropsClip(t *testing.T) {
	analyzer := mock.NewAnalyzer()
	analyzer.ScoreRelevanceFunc = func(ctx context.Context, query string, video core.VideoRecord, segments []core.TranscriptSegment) (*ai.ClipFinding, error) {
		return &ai.ClipFinding{Content: "bad", Timestamp: "1:02:03", Relevance: 0.9}, nil
	}

	ranker, err := NewRanker(analyzer, WithRankRetryPolicy(fastPolicy()))
	require.NoError(t, err)
	defer ranker.Release()

	clips, err := ranker.Rank(context.Background(), testSession("vidA"), "question")
	require.NoError(t, err)
	assert.Empty(t, clips)
}

func TestRank_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	analyzer := mock.NewAnalyzer()
	analyzer.ScoreRelevanceFunc = func(ctx context.Context, query string, video core.VideoRecord, segments []core.TranscriptSegment) (*ai.ClipFinding, error) {
		cancel()
		return nil, ctx.Err()
	}

	ranker, err := NewRanker(analyzer, WithRankRetryPolicy(fastPolicy()))
	require.NoError(t, err)
	defer ranker.Release()

	_, err = ranker.Rank(ctx, testSession("vidA"), "question")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRank_NilSession(t *testing.T) {
	ranker, err := NewRanker(mock.NewAnalyzer())
	require.NoError(t, err)
	defer ranker.Release()

	_, err = ranker.Rank(context.Background(), nil, "question")
	assert.ErrorIs(t, err, ErrSessionRequired)
}
