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

package clipfind

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/clipfind/ai"
	"github.com/poiesic/clipfind/ai/openai"
	"github.com/poiesic/clipfind/analysis"
	"github.com/poiesic/clipfind/core"
	"github.com/poiesic/clipfind/fetch"
	"github.com/poiesic/clipfind/retry"
	"github.com/poiesic/clipfind/session"
	"github.com/poiesic/clipfind/storage"
	"github.com/poiesic/clipfind/storage/badger"
	"github.com/poiesic/clipfind/video"
	"github.com/poiesic/clipfind/video/youtube"
)

// Service is the top-level facade: session store, video providers,
// transcript cache, and the fetch/rank/synthesize pipeline wired together.
type Service struct {
	store       *session.Store
	reaper      *session.Reaper
	backend     *badger.Backend
	cache       storage.TranscriptCache
	provider    ai.Provider
	builder     *fetch.Builder
	ranker      *analysis.Ranker
	synthesizer *analysis.Synthesizer
	logger      *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig      *ai.Config
	youtubeConfig *youtube.Config
	catalog       video.CatalogProvider
	transcripts   video.TranscriptProvider
	provider      ai.Provider
	sessionTTL    time.Duration
	reapInterval  time.Duration
	language      string
	retryPolicy   *retry.Policy
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.aiConfig = config
	}
}

// WithYouTubeConfig sets the YouTube client configuration.
func WithYouTubeConfig(config *youtube.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.youtubeConfig = config
	}
}

// WithCatalogProvider overrides the catalog provider.
// Used by tests; the default is the YouTube Data API client.
func WithCatalogProvider(catalog video.CatalogProvider) ServiceOption {
	return func(o *serviceOptions) {
		o.catalog = catalog
	}
}

// WithTranscriptProvider overrides the transcript provider.
// Used by tests; the default is the timedtext client.
func WithTranscriptProvider(transcripts video.TranscriptProvider) ServiceOption {
	return func(o *serviceOptions) {
		o.transcripts = transcripts
	}
}

// WithAIProvider overrides the AI provider.
// Used by tests; the default is the OpenAI-compatible provider.
func WithAIProvider(provider ai.Provider) ServiceOption {
	return func(o *serviceOptions) {
		o.provider = provider
	}
}

// WithSessionTTL sets the session time-to-live.
// Default is 1 hour.
func WithSessionTTL(ttl time.Duration) ServiceOption {
	return func(o *serviceOptions) {
		o.sessionTTL = ttl
	}
}

// WithReapInterval sets the interval between expired-session sweeps.
// Default is 5 minutes.
func WithReapInterval(interval time.Duration) ServiceOption {
	return func(o *serviceOptions) {
		o.reapInterval = interval
	}
}

// WithTranscriptLanguage sets the preferred transcript language.
// Default is "en".
func WithTranscriptLanguage(language string) ServiceOption {
	return func(o *serviceOptions) {
		o.language = language
	}
}

// WithRetryPolicy overrides the backoff policy applied to catalog,
// transcript, scoring, and synthesis calls.
func WithRetryPolicy(policy retry.Policy) ServiceOption {
	return func(o *serviceOptions) {
		o.retryPolicy = &policy
	}
}

// NewService wires the full pipeline. cachePath is the directory for the
// transcript cache; the empty string selects an in-memory cache.
func NewService(cachePath string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		aiConfig:      ai.DefaultConfig(),
		youtubeConfig: youtube.DefaultConfig(),
		sessionTTL:    session.DefaultTTL,
		reapInterval:  session.DefaultReapInterval,
		language:      "en",
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open the transcript cache
	backend, err := badger.OpenBackend(cachePath, cachePath == "")
	if err != nil {
		return nil, err
	}

	cache, err := badger.NewTranscriptCache(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Video providers
	catalog := options.catalog
	if catalog == nil {
		catalog, err = youtube.NewCatalog(options.youtubeConfig)
		if err != nil {
			cache.Close()
			backend.Close()
			return nil, err
		}
	}

	transcripts := options.transcripts
	if transcripts == nil {
		transcripts, err = youtube.NewTranscripts(options.youtubeConfig)
		if err != nil {
			cache.Close()
			backend.Close()
			return nil, err
		}
	}

	// AI provider
	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			cache.Close()
			backend.Close()
			return nil, err
		}
	}

	store := session.NewStore(session.WithTTL(options.sessionTTL))

	builderOpts := []fetch.Option{
		fetch.WithCache(cache),
		fetch.WithLanguage(options.language),
	}
	var rankerOpts []analysis.RankerOption
	var synthOpts []analysis.SynthesizerOption
	if options.retryPolicy != nil {
		builderOpts = append(builderOpts, fetch.WithRetryPolicy(*options.retryPolicy))
		rankerOpts = append(rankerOpts, analysis.WithRankRetryPolicy(*options.retryPolicy))
		synthOpts = append(synthOpts, analysis.WithSynthRetryPolicy(*options.retryPolicy))
	}

	builder, err := fetch.NewBuilder(store, catalog, transcripts, builderOpts...)
	if err != nil {
		provider.Close()
		cache.Close()
		backend.Close()
		return nil, err
	}

	ranker, err := analysis.NewRanker(provider.RelevanceAnalyzer(), rankerOpts...)
	if err != nil {
		builder.Release()
		provider.Close()
		cache.Close()
		backend.Close()
		return nil, err
	}

	synthesizer, err := analysis.NewSynthesizer(provider.AnswerGenerator(), synthOpts...)
	if err != nil {
		ranker.Release()
		builder.Release()
		provider.Close()
		cache.Close()
		backend.Close()
		return nil, err
	}

	return &Service{
		store:       store,
		reaper:      session.NewReaper(store, session.WithInterval(options.reapInterval)),
		backend:     backend,
		cache:       cache,
		provider:    provider,
		builder:     builder,
		ranker:      ranker,
		synthesizer: synthesizer,
		logger:      slog.Default().With("component", "service"),
	}, nil
}

// StartReaper launches the background expired-session sweeper.
func (s *Service) StartReaper(ctx context.Context) {
	s.reaper.Start(ctx)
}

// CreateSession searches for the keyword, fetches transcripts for the
// results, and returns the stored session.
func (s *Service) CreateSession(ctx context.Context, keyword string, maxResults int) (*core.Session, error) {
	return s.builder.BuildSession(ctx, keyword, maxResults)
}

// GetSession returns the session for an id, refreshing its last-access
// time. Fails with session.ErrSessionNotFound or session.ErrSessionExpired.
func (s *Service) GetSession(id string) (*core.Session, error) {
	return s.store.GetActive(id)
}

// AnalyzeSession asks a question against a session's transcripts. It
// returns ranked clips and a synthesized answer; when no clip is relevant
// the answer falls back to general knowledge.
func (s *Service) AnalyzeSession(ctx context.Context, sessionID, query string) (*core.Analysis, error) {
	sess, err := s.store.GetActive(sessionID)
	if err != nil {
		return nil, err
	}

	clips, err := s.ranker.Rank(ctx, sess, query)
	if err != nil {
		return nil, err
	}

	answer := s.synthesizer.Synthesize(ctx, sess, query, clips)

	s.logger.Info("session analyzed",
		"session_id", sessionID, "clips", len(clips), "confidence", answer.Confidence)

	return &core.Analysis{
		Clips:      clips,
		Answer:     answer.Summary,
		Confidence: answer.Confidence,
	}, nil
}

// Store exposes the session store, mainly for the reaper and tests.
func (s *Service) Store() *session.Store {
	return s.store
}

// SessionTTL returns the configured session time-to-live.
func (s *Service) SessionTTL() time.Duration {
	return s.store.TTL()
}

// Close stops the reaper and releases every component.
func (s *Service) Close() error {
	s.reaper.Stop()
	s.ranker.Release()
	s.builder.Release()

	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if err := s.cache.Close(); err != nil {
		s.logger.Error("error closing transcript cache", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing cache backend", "err", err)
		return err
	}
	return nil
}
