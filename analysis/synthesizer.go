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
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/clipfind/ai"
	"github.com/poiesic/clipfind/core"
	"github.com/poiesic/clipfind/retry"
)

const (
	// contextWindowSeconds bounds the transcript context extracted
	// around each clip's start offset, in both directions.
	contextWindowSeconds = 60

	// DefaultFallbackAnswer is returned when both synthesis stages
	// fail or come back empty.
	DefaultFallbackAnswer = "No answer could be produced for this question."
)

// Synthesizer turns ranked clips into a final answer. It builds a bounded
// transcript context around each clip and asks the generator for a grounded
// answer; when there are no clips or the grounded attempt yields nothing,
// it falls back to a knowledge-only answer, and finally to a fixed string.
type Synthesizer struct {
	generator ai.AnswerGenerator
	fallback  string
	policy    retry.Policy
	logger    *slog.Logger
}

// SynthesizerOption configures a Synthesizer.
type SynthesizerOption func(*Synthesizer) error

// WithFallbackAnswer overrides the fixed fallback answer text.
func WithFallbackAnswer(text string) SynthesizerOption {
	return func(s *Synthesizer) error {
		s.fallback = text
		return nil
	}
}

// WithSynthRetryPolicy overrides the retry policy for generation calls.
func WithSynthRetryPolicy(policy retry.Policy) SynthesizerOption {
	return func(s *Synthesizer) error {
		if policy.MaxAttempts <= 0 {
			return retry.ErrInvalidMaxAttempts
		}
		s.policy = policy
		return nil
	}
}

// WithSynthLogger sets a custom logger.
// Default is slog.Default().
func WithSynthLogger(logger *slog.Logger) SynthesizerOption {
	return func(s *Synthesizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSynthesizer creates a new Synthesizer.
func NewSynthesizer(generator ai.AnswerGenerator, opts ...SynthesizerOption) (*Synthesizer, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	s := &Synthesizer{
		generator: generator,
		fallback:  DefaultFallbackAnswer,
		policy:    retry.DefaultPolicy(),
		logger:    slog.Default().With("component", "synthesizer"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Synthesize produces the answer for a question asked against a session.
// It never returns an error: generation failures degrade through the
// knowledge-only stage down to the fixed fallback answer.
func (s *Synthesizer) Synthesize(ctx context.Context, sess *core.Session, query string, clips []core.Clip) ai.Answer {
	if len(clips) > 0 {
		contextText := s.buildContext(sess, clips)
		if contextText != "" {
			answer, err := s.generate(ctx, query, contextText)
			if err == nil && strings.TrimSpace(answer.Summary) != "" {
				return answer
			}
			if err != nil {
				s.logger.Warn("grounded synthesis failed", "err", err)
			}
		}
	}

	answer, err := s.generate(ctx, query, "")
	if err == nil && strings.TrimSpace(answer.Summary) != "" {
		return answer
	}
	if err != nil {
		s.logger.Warn("knowledge-only synthesis failed", "err", err)
	}

	return ai.Answer{Summary: s.fallback, Confidence: 0}
}

func (s *Synthesizer) generate(ctx context.Context, query, contextText string) (ai.Answer, error) {
	var answer ai.Answer
	err := s.policy.Do(ctx, func() error {
		var genErr error
		answer, genErr = s.generator.SynthesizeAnswer(ctx, query, contextText)
		return genErr
	})
	return answer, err
}

// buildContext concatenates, for each clip, the segments of the same video
// whose start offset falls within the context window of the clip's offset.
// Each clip contributes one labeled block.
func (s *Synthesizer) buildContext(sess *core.Session, clips []core.Clip) string {
	if sess == nil {
		return ""
	}

	var blocks []string
	for _, clip := range clips {
		offset, err := core.ToSeconds(clip.Timestamp)
		if err != nil {
			continue
		}

		segments := sess.Segments(clip.VideoID)
		var texts []string
		for _, segment := range segments {
			if segment.Start >= float64(offset-contextWindowSeconds) &&
				segment.Start <= float64(offset+contextWindowSeconds) {
				texts = append(texts, segment.Text)
			}
		}
		if len(texts) == 0 {
			continue
		}

		blocks = append(blocks, fmt.Sprintf("[%s @ %s]\n%s",
			clip.VideoTitle, clip.Timestamp, strings.Join(texts, " ")))
	}

	return strings.Join(blocks, "\n\n")
}
