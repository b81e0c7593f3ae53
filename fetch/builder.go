// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/clipfind/core"
	"github.com/poiesic/clipfind/retry"
	"github.com/poiesic/clipfind/session"
	"github.com/poiesic/clipfind/storage"
	"github.com/poiesic/clipfind/video"
)

const (
	// defaultFetchConcurrency caps concurrent transcript downloads per session build.
	defaultFetchConcurrency = 10

	defaultLanguage = "en"
)

// Builder assembles search sessions. It queries the video catalog,
// fetches transcripts for each result concurrently, and records
// everything in the session store.
//
// A catalog failure fails the whole build. A transcript failure for a
// single video does not: the video is kept without segments.
type Builder struct {
	store       *session.Store
	catalog     video.CatalogProvider
	transcripts video.TranscriptProvider
	cache       storage.TranscriptCache
	pool        *ants.Pool
	policy      retry.Policy
	language    string
	logger      *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithPoolSize sets the worker pool size for concurrent transcript fetches.
// Default is 10.
func WithPoolSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}
		if b.pool != nil {
			b.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		b.pool = pool
		return nil
	}
}

// WithCache sets a transcript cache consulted before the provider.
// Default is no caching.
func WithCache(cache storage.TranscriptCache) Option {
	return func(b *Builder) error {
		b.cache = cache
		return nil
	}
}

// WithRetryPolicy overrides the retry policy for catalog and transcript calls.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(b *Builder) error {
		if policy.MaxAttempts <= 0 {
			return retry.ErrInvalidMaxAttempts
		}
		b.policy = policy
		return nil
	}
}

// WithLanguage sets the preferred transcript language.
// Default is "en".
func WithLanguage(language string) Option {
	return func(b *Builder) error {
		if language != "" {
			b.language = language
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates a new session builder.
func NewBuilder(
	store *session.Store,
	catalog video.CatalogProvider,
	transcripts video.TranscriptProvider,
	opts ...Option,
) (*Builder, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	if transcripts == nil {
		return nil, ErrTranscriptProviderRequired
	}

	pool, err := ants.NewPool(defaultFetchConcurrency)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		store:       store,
		catalog:     catalog,
		transcripts: transcripts,
		pool:        pool,
		policy:      retry.DefaultPolicy(),
		language:    defaultLanguage,
		logger:      slog.Default().With("component", "fetch"),
	}

	for _, opt := range opts {
		if optErr := opt(b); optErr != nil {
			b.Release()
			return nil, optErr
		}
	}

	return b, nil
}

// BuildSession searches the catalog for the keyword, fetches transcripts
// for each result, and returns the populated session. Videos appear in
// catalog order regardless of transcript fetch completion order.
func (b *Builder) BuildSession(ctx context.Context, keyword string, maxResults int) (*core.Session, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, ErrEmptyKeyword
	}

	var videos []core.VideoRecord
	err := b.policy.Do(ctx, func() error {
		var searchErr error
		videos, searchErr = b.catalog.Search(ctx, keyword, maxResults)
		return searchErr
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", video.ErrCatalogUnavailable, err)
	}

	sess := b.store.Create(keyword)
	b.logger.Info("building session",
		"session_id", sess.ID, "keyword", keyword, "videos", len(videos))

	// Indexed results keep catalog order independent of completion order.
	results := make([][]core.TranscriptSegment, len(videos))
	var wg sync.WaitGroup
	for i, record := range videos {
		wg.Add(1)
		submitErr := b.pool.Submit(func() {
			defer wg.Done()
			results[i] = b.fetchTranscript(ctx, record.VideoID)
		})
		if submitErr != nil {
			wg.Done()
			b.logger.Warn("transcript fetch not scheduled",
				"video_id", record.VideoID, "err", submitErr)
		}
	}
	wg.Wait()

	// The build fails as a unit: a half-populated session must not
	// outlive a failed call.
	if ctx.Err() != nil {
		b.store.Delete(sess.ID)
		return nil, ctx.Err()
	}

	for i, record := range videos {
		if err := b.store.AddVideo(sess.ID, record, results[i]); err != nil {
			b.store.Delete(sess.ID)
			return nil, err
		}
	}

	return b.store.Get(sess.ID)
}

// fetchTranscript returns transcript segments for a video, or nil when
// the transcript is absent or could not be retrieved.
func (b *Builder) fetchTranscript(ctx context.Context, videoID string) []core.TranscriptSegment {
	if b.cache != nil {
		segments, found, err := b.cache.Get(ctx, videoID, b.language)
		if err != nil {
			b.logger.Warn("transcript cache read failed", "video_id", videoID, "err", err)
		} else if found {
			b.logger.Debug("transcript cache hit", "video_id", videoID)
			return segments
		}
	}

	var segments []core.TranscriptSegment
	err := b.policy.Do(ctx, func() error {
		var fetchErr error
		segments, fetchErr = b.transcripts.Fetch(ctx, videoID, b.language)
		return fetchErr
	})
	if err != nil {
		b.logger.Warn("transcript fetch failed", "video_id", videoID, "err", err)
		return nil
	}

	if len(segments) > 0 && b.cache != nil {
		if err := b.cache.Put(ctx, videoID, b.language, segments); err != nil {
			b.logger.Warn("transcript cache write failed", "video_id", videoID, "err", err)
		}
	}

	return segments
}

// Release releases the worker pool.
// The builder should not be used after calling Release.
func (b *Builder) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}
