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

package analysis

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/clipfind/ai"
	"github.com/poiesic/clipfind/core"
	"github.com/poiesic/clipfind/retry"
)

// defaultRankConcurrency caps concurrent relevance scoring calls.
const defaultRankConcurrency = 4

// Ranker scores session videos against a query and produces ranked clips.
// Each video contributes at most one clip. Clips are ordered by descending
// relevance; ties break by catalog order, then by ascending start offset.
type Ranker struct {
	analyzer ai.RelevanceAnalyzer
	pool     *ants.Pool
	policy   retry.Policy
	logger   *slog.Logger
}

// RankerOption configures a Ranker.
type RankerOption func(*Ranker) error

// WithRankPoolSize sets the worker pool size for concurrent scoring.
// Default is 4.
func WithRankPoolSize(size int) RankerOption {
	return func(r *Ranker) error {
		if size < 1 {
			size = 1
		}
		if r.pool != nil {
			r.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithRankRetryPolicy overrides the retry policy for scoring calls.
func WithRankRetryPolicy(policy retry.Policy) RankerOption {
	return func(r *Ranker) error {
		if policy.MaxAttempts <= 0 {
			return retry.ErrInvalidMaxAttempts
		}
		r.policy = policy
		return nil
	}
}

// WithRankLogger sets a custom logger.
// Default is slog.Default().
func WithRankLogger(logger *slog.Logger) RankerOption {
	return func(r *Ranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRanker creates a new Ranker.
func NewRanker(analyzer ai.RelevanceAnalyzer, opts ...RankerOption) (*Ranker, error) {
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}

	pool, err := ants.NewPool(defaultRankConcurrency)
	if err != nil {
		return nil, err
	}

	r := &Ranker{
		analyzer: analyzer,
		pool:     pool,
		policy:   retry.DefaultPolicy(),
		logger:   slog.Default().With("component", "ranker"),
	}

	for _, opt := range opts {
		if optErr := opt(r); optErr != nil {
			r.Release()
			return nil, optErr
		}
	}

	return r, nil
}

// scoredClip carries the ordering keys alongside the clip itself.
type scoredClip struct {
	clip    core.Clip
	order   int // catalog position
	offset  int // clip start offset in seconds
}

// Rank scores every video in the session that has transcript segments and
// returns the resulting clips in ranked order. Videos without transcripts
// are never scored; a session with no transcripts at all yields no clips
// without invoking the analyzer. Scoring failures for individual videos
// are logged and skipped.
func (r *Ranker) Rank(ctx context.Context, sess *core.Session, query string) ([]core.Clip, error) {
	if sess == nil {
		return nil, ErrSessionRequired
	}
	if !sess.HasTranscripts() {
		return nil, nil
	}

	results := make([]*scoredClip, len(sess.Videos))
	var wg sync.WaitGroup
	for i, record := range sess.Videos {
		segments := sess.Segments(record.VideoID)
		if len(segments) == 0 {
			continue
		}

		wg.Add(1)
		submitErr := r.pool.Submit(func() {
			defer wg.Done()
			results[i] = r.scoreVideo(ctx, query, i, record, segments)
		})
		if submitErr != nil {
			wg.Done()
			r.logger.Warn("relevance scoring not scheduled",
				"video_id", record.VideoID, "err", submitErr)
		}
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	ranked := make([]*scoredClip, 0, len(results))
	for _, result := range results {
		if result != nil {
			ranked = append(ranked, result)
		}
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].clip.Relevance != ranked[b].clip.Relevance {
			return ranked[a].clip.Relevance > ranked[b].clip.Relevance
		}
		if ranked[a].order != ranked[b].order {
			return ranked[a].order < ranked[b].order
		}
		return ranked[a].offset < ranked[b].offset
	})

	clips := make([]core.Clip, len(ranked))
	for i, result := range ranked {
		clips[i] = result.clip
	}
	return clips, nil
}

// scoreVideo runs the analyzer for one video and converts the finding to a
// clip. Returns nil when the video is not relevant or the finding is unusable.
func (r *Ranker) scoreVideo(ctx context.Context, query string, order int, record core.VideoRecord, segments []core.TranscriptSegment) *scoredClip {
	var finding *ai.ClipFinding
	err := r.policy.Do(ctx, func() error {
		var scoreErr error
		finding, scoreErr = r.analyzer.ScoreRelevance(ctx, query, record, segments)
		return scoreErr
	})
	if err != nil {
		r.logger.Warn("relevance scoring failed", "video_id", record.VideoID, "err", err)
		return nil
	}
	if finding == nil {
		return nil
	}

	offset, err := core.ToSeconds(finding.Timestamp)
	if err != nil {
		r.logger.Warn("dropping clip with malformed timestamp",
			"video_id", record.VideoID, "timestamp", finding.Timestamp, "err", err)
		return nil
	}

	return &scoredClip{
		clip: core.Clip{
			VideoID:    record.VideoID,
			VideoTitle: record.Title,
			Content:    finding.Content,
			Timestamp:  finding.Timestamp,
			Relevance:  finding.Relevance,
			DeepLink:   record.DeepLink(offset),
		},
		order:  order,
		offset: offset,
	}
}

// Release releases the worker pool.
// The ranker should not be used after calling Release.
func (r *Ranker) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}
