package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/clipfind/core"
	"github.com/poiesic/clipfind/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptCache_PutGet(t *testing.T) {
	cache, backend, err := NewMemoryCache()
	require.NoError(t, err)
	defer backend.Close()
	defer cache.Close()

	ctx := context.Background()
	segments := []core.TranscriptSegment{
		{Text: "welcome to the channel", Start: 0, Duration: 3.5},
		{Text: "today we cover goroutines", Start: 3.5, Duration: 4.2},
	}

	err = cache.Put(ctx, "vidA", "en", segments)
	require.NoError(t, err)

	got, found, err := cache.Get(ctx, "vidA", "en")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, segments, got)
}

func TestTranscriptCache_GetMissing(t *testing.T) {
	cache, backend, err := NewMemoryCache()
	require.NoError(t, err)
	defer backend.Close()
	defer cache.Close()

	got, found, err := cache.Get(context.Background(), "nosuch", "en")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestTranscriptCache_LanguageIsolation(t *testing.T) {
	cache, backend, err := NewMemoryCache()
	require.NoError(t, err)
	defer backend.Close()
	defer cache.Close()

	ctx := context.Background()
	english := []core.TranscriptSegment{{Text: "hello", Start: 0, Duration: 1}}
	french := []core.TranscriptSegment{{Text: "bonjour", Start: 0, Duration: 1}}

	require.NoError(t, cache.Put(ctx, "vidA", "en", english))
	require.NoError(t, cache.Put(ctx, "vidA", "fr", french))

	got, found, err := cache.Get(ctx, "vidA", "en")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, english, got)

	got, found, err = cache.Get(ctx, "vidA", "fr")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, french, got)
}

func TestTranscriptCache_Overwrite(t *testing.T) {
	cache, backend, err := NewMemoryCache()
	require.NoError(t, err)
	defer backend.Close()
	defer cache.Close()

	ctx := context.Background()
	first := []core.TranscriptSegment{{Text: "draft", Start: 0, Duration: 1}}
	second := []core.TranscriptSegment{{Text: "final", Start: 0, Duration: 2}}

	require.NoError(t, cache.Put(ctx, "vidA", "en", first))
	require.NoError(t, cache.Put(ctx, "vidA", "en", second))

	got, found, err := cache.Get(ctx, "vidA", "en")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, second, got)
}

func TestTranscriptCache_Expiry(t *testing.T) {
	cache, backend, err := NewMemoryCache(WithRetention(50 * time.Millisecond))
	require.NoError(t, err)
	defer backend.Close()
	defer cache.Close()

	ctx := context.Background()
	segments := []core.TranscriptSegment{{Text: "short lived", Start: 0, Duration: 1}}
	require.NoError(t, cache.Put(ctx, "vidA", "en", segments))

	_, found, err := cache.Get(ctx, "vidA", "en")
	require.NoError(t, err)
	require.True(t, found)

	time.Sleep(100 * time.Millisecond)

	_, found, err = cache.Get(ctx, "vidA", "en")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTranscriptCache_ClosedBackend(t *testing.T) {
	cache, backend, err := NewMemoryCache()
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	_, _, err = cache.Get(context.Background(), "vidA", "en")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	err = cache.Put(context.Background(), "vidA", "en", nil)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
