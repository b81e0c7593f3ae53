package fetch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/clipfind/core"
	"github.com/poiesic/clipfind/retry"
	"github.com/poiesic/clipfind/session"
	"github.com/poiesic/clipfind/storage/badger"
	"github.com/poiesic/clipfind/video"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog implements video.CatalogProvider for testing.
type fakeCatalog struct {
	mu         sync.Mutex
	searchFunc func(ctx context.Context, keyword string, maxResults int) ([]core.VideoRecord, error)
	callCount  int
}

func (f *fakeCatalog) Search(ctx context.Context, keyword string, maxResults int) ([]core.VideoRecord, error) {
	f.mu.Lock()
	f.callCount++
	f.mu.Unlock()
	return f.searchFunc(ctx, keyword, maxResults)
}

func (f *fakeCatalog) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callCount
}

// fakeTranscripts implements video.TranscriptProvider for testing.
type fakeTranscripts struct {
	mu        sync.Mutex
	fetchFunc func(ctx context.Context, videoID, language string) ([]core.TranscriptSegment, error)
	callCount int
}

func (f *fakeTranscripts) Fetch(ctx context.Context, videoID, preferredLanguage string) ([]core.TranscriptSegment, error) {
	f.mu.Lock()
	f.callCount++
	f.mu.Unlock()
	return f.fetchFunc(ctx, videoID, preferredLanguage)
}

func (f *fakeTranscripts) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callCount
}

func testRecords(ids ...string) []core.VideoRecord {
	records := make([]core.VideoRecord, len(ids))
	for i, id := range ids {
		records[i] = core.VideoRecord{VideoID: id, Title: "title " + id}
	}
	return records
}

func fastPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestBuildSession_Success(t *testing.T) {
	catalog := &fakeCatalog{
		searchFunc: func(ctx context.Context, keyword string, maxResults int) ([]core.VideoRecord, error) {
			return testRecords("vidA", "vidB", "vidC"), nil
		},
	}
	transcripts := &fakeTranscripts{
		fetchFunc: func(ctx context.Context, videoID, language string) ([]core.TranscriptSegment, error) {
			return []core.TranscriptSegment{{Text: "segment for " + videoID, Start: 0, Duration: 2}}, nil
		},
	}

	store := session.NewStore()
	builder, err := NewBuilder(store, catalog, transcripts, WithRetryPolicy(fastPolicy()))
	require.NoError(t, err)
	defer builder.Release()

	sess, err := builder.BuildSession(context.Background(), "golang", 3)
	require.NoError(t, err)
	require.Len(t, sess.Videos, 3)

	assert.Equal(t, "vidA", sess.Videos[0].VideoID)
	assert.Equal(t, "vidB", sess.Videos[1].VideoID)
	assert.Equal(t, "vidC", sess.Videos[2].VideoID)
	assert.True(t, sess.HasTranscripts())
	assert.Equal(t, "segment for vidB", sess.Segments("vidB")[0].Text)
}

func TestBuildSession_EmptyKeyword(t *testing.T) {
	store := session.NewStore()
	builder, err := NewBuilder(store, &fakeCatalog{}, &fakeTranscripts{})
	require.NoError(t, err)
	defer builder.Release()

	_, err = builder.BuildSession(context.Background(), "   ", 3)
	assert.ErrorIs(t, err, ErrEmptyKeyword)
}

func TestBuildSession_CatalogFailureIsFatal(t *testing.T) {
	catalog := &fakeCatalog{
		searchFunc: func(ctx context.Context, keyword string, maxResults int) ([]core.VideoRecord, error) {
			return nil, errors.New("quota exceeded")
		},
	}

	store := session.NewStore()
	builder, err := NewBuilder(store, catalog, &fakeTranscripts{}, WithRetryPolicy(fastPolicy()))
	require.NoError(t, err)
	defer builder.Release()

	_, err = builder.BuildSession(context.Background(), "golang", 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, video.ErrCatalogUnavailable)
	// Retried all attempts before failing.
	assert.Equal(t, 3, catalog.calls())
	// No session left behind.
	assert.Equal(t, 0, store.Len())
}

func TestBuildSession_CatalogRetrySucceeds(t *testing.T) {
	catalog := &fakeCatalog{}
	catalog.searchFunc = func(ctx context.Context, keyword string, maxResults int) ([]core.VideoRecord, error) {
		if catalog.calls() < 3 {
			return nil, errors.New("transient")
		}
		return testRecords("vidA"), nil
	}
	transcripts := &fakeTranscripts{
		fetchFunc: func(ctx context.Context, videoID, language string) ([]core.TranscriptSegment, error) {
			return nil, nil
		},
	}

	store := session.NewStore()
	builder, err := NewBuilder(store, catalog, transcripts, WithRetryPolicy(fastPolicy()))
	require.NoError(t, err)
	defer builder.Release()

	sess, err := builder.BuildSession(context.Background(), "golang", 1)
	require.NoError(t, err)
	assert.Len(t, sess.Videos, 1)
	assert.Equal(t, 3, catalog.calls())
}

func TestBuildSession_TranscriptFailureTolerated(t *testing.T) {
	catalog := &fakeCatalog{
		searchFunc: func(ctx context.Context, keyword string, maxResults int) ([]core.VideoRecord, error) {
			return testRecords("vidA", "vidB"), nil
		},
	}
	transcripts := &fakeTranscripts{
		fetchFunc: func(ctx context.Context, videoID, language string) ([]core.TranscriptSegment, error) {
			if videoID == "vidB" {
				return nil, errors.New("subtitles disabled")
			}
			return []core.TranscriptSegment{{Text: "only A", Start: 0, Duration: 1}}, nil
		},
	}

	store := session.NewStore()
	builder, err := NewBuilder(store, catalog, transcripts, WithRetryPolicy(fastPolicy()))
	require.NoError(t, err)
	defer builder.Release()

	sess, err := builder.BuildSession(context.Background(), "golang", 2)
	require.NoError(t, err)
	require.Len(t, sess.Videos, 2)

	assert.NotEmpty(t, sess.Segments("vidA"))
	assert.Empty(t, sess.Segments("vidB"))
	assert.True(t, sess.HasTranscripts())
}

func TestBuildSession_OrderSurvivesSlowFetches(t *testing.T) {
	catalog := &fakeCatalog{
		searchFunc: func(ctx context.Context, keyword string, maxResults int) ([]core.VideoRecord, error) {
			return testRecords("vidA", "vidB", "vidC", "vidD"), nil
		},
	}
	transcripts := &fakeTranscripts{
		fetchFunc: func(ctx context.Context, videoID, language string) ([]core.TranscriptSegment, error) {
			// Earlier videos finish last.
			switch videoID {
			case "vidA":
				time.Sleep(30 * time.Millisecond)
			case "vidB":
				time.Sleep(15 * time.Millisecond)
			}
			return []core.TranscriptSegment{{Text: videoID, Start: 0, Duration: 1}}, nil
		},
	}

	store := session.NewStore()
	builder, err := NewBuilder(store, catalog, transcripts, WithRetryPolicy(fastPolicy()))
	require.NoError(t, err)
	defer builder.Release()

	sess, err := builder.BuildSession(context.Background(), "golang", 4)
	require.NoError(t, err)
	require.Len(t, sess.Videos, 4)

	for i, want := range []string{"vidA", "vidB", "vidC", "vidD"} {
		assert.Equal(t, want, sess.Videos[i].VideoID)
	}
}

func TestBuildSession_ContextCanceled(t *testing.T) {
	catalog := &fakeCatalog{
		searchFunc: func(ctx context.Context, keyword string, maxResults int) ([]core.VideoRecord, error) {
			return testRecords("vidA"), nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	transcripts := &fakeTranscripts{
		fetchFunc: func(ctx context.Context, videoID, language string) ([]core.TranscriptSegment, error) {
			cancel()
			return nil, ctx.Err()
		},
	}

	store := session.NewStore()
	builder, err := NewBuilder(store, catalog, transcripts, WithRetryPolicy(fastPolicy()))
	require.NoError(t, err)
	defer builder.Release()

	_, err = builder.BuildSession(ctx, "golang", 1)
	assert.ErrorIs(t, err, context.Canceled)
	// The partially built session is discarded along with the failure.
	assert.Equal(t, 0, store.Len())
}

func TestBuildSession_CacheHitSkipsProvider(t *testing.T) {
	cache, backend, err := badger.NewMemoryCache()
	require.NoError(t, err)
	defer backend.Close()
	defer cache.Close()

	cached := []core.TranscriptSegment{{Text: "from cache", Start: 0, Duration: 1}}
	require.NoError(t, cache.Put(context.Background(), "vidA", "en", cached))

	catalog := &fakeCatalog{
		searchFunc: func(ctx context.Context, keyword string, maxResults int) ([]core.VideoRecord, error) {
			return testRecords("vidA"), nil
		},
	}
	transcripts := &fakeTranscripts{
		fetchFunc: func(ctx context.Context, videoID, language string) ([]core.TranscriptSegment, error) {
			return nil, errors.New("should not be called")
		},
	}

	store := session.NewStore()
	builder, err := NewBuilder(store, catalog, transcripts,
		WithRetryPolicy(fastPolicy()), WithCache(cache))
	require.NoError(t, err)
	defer builder.Release()

	sess, err := builder.BuildSession(context.Background(), "golang", 1)
	require.NoError(t, err)
	assert.Equal(t, "from cache", sess.Segments("vidA")[0].Text)
	assert.Equal(t, 0, transcripts.calls())
}

func TestBuildSession_CachePopulatedOnFetch(t *testing.T) {
	cache, backend, err := badger.NewMemoryCache()
	require.NoError(t, err)
	defer backend.Close()
	defer cache.Close()

	catalog := &fakeCatalog{
		searchFunc: func(ctx context.Context, keyword string, maxResults int) ([]core.VideoRecord, error) {
			return testRecords("vidA"), nil
		},
	}
	transcripts := &fakeTranscripts{
		fetchFunc: func(ctx context.Context, videoID, language string) ([]core.TranscriptSegment, error) {
			return []core.TranscriptSegment{{Text: "fresh", Start: 0, Duration: 1}}, nil
		},
	}

	store := session.NewStore()
	builder, err := NewBuilder(store, catalog, transcripts,
		WithRetryPolicy(fastPolicy()), WithCache(cache))
	require.NoError(t, err)
	defer builder.Release()

	_, err = builder.BuildSession(context.Background(), "golang", 1)
	require.NoError(t, err)

	got, found, err := cache.Get(context.Background(), "vidA", "en")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "fresh", got[0].Text)
	assert.Equal(t, 1, transcripts.calls())
}
