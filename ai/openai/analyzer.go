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


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/clipfind/ai"
	"github.com/poiesic/clipfind/core"
	"github.com/poiesic/clipfind/retry"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// RelevanceAnalyzer implements ai.RelevanceAnalyzer using OpenAI-compatible chat APIs.
type RelevanceAnalyzer struct {
	client       llms.Model
	timeout      time.Duration
	minRelevance float64
	logger       *slog.Logger
}

// clipResponse is the wrapper structure for the LLM's JSON response.
// A null clip means no relevant segment was found.
type clipResponse struct {
	Clip *struct {
		Content   string  `json:"content"`
		Timestamp string  `json:"timestamp"`
		Relevance float64 `json:"relevance"`
	} `json:"clip"`
}

// newRelevanceAnalyzer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newRelevanceAnalyzer(config *ai.Config) (*RelevanceAnalyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.AnalyzerHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.AnalyzerModel),
	)
	if err != nil {
		return nil, err
	}

	return &RelevanceAnalyzer{
		client:       client,
		timeout:      config.RequestTimeout,
		minRelevance: config.MinRelevance,
		logger:       slog.Default().With("component", "openai-analyzer"),
	}, nil
}

// NewRelevanceAnalyzer creates a new relevance analyzer using the provided configuration.
//
// Returns ai.RelevanceAnalyzer interface to enforce abstraction.
func NewRelevanceAnalyzer(config *ai.Config) (ai.RelevanceAnalyzer, error) {
	return newRelevanceAnalyzer(config)
}

// ScoreRelevance asks the model for the single transcript excerpt most
// relevant to the query. Segments are rendered one per line with their
// "[MM:SS]" offset so the model can cite a timestamp.
// Returns nil when the model reports no relevant segment or the finding
// falls below the configured relevance threshold.
func (a *RelevanceAnalyzer) ScoreRelevance(ctx context.Context, query string, video core.VideoRecord, segments []core.TranscriptSegment) (*ai.ClipFinding, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(relevancePrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildRelevanceInput(query, video, segments)),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result clipResponse
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := a.client.GenerateContent(ctx, content,
			llms.WithTemperature(0.0), llms.WithJSONMode(), llms.WithMaxTokens(500))
		if err != nil {
			a.logger.Error("failed to generate content", "attempt", attempt+1, "video", video.VideoID, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			a.logger.Debug("no choices returned from model", "video", video.VideoID)
			return nil, nil
		}

		responseText := stripFences(response.Choices[0].Content)

		// A bare null is the model's way of saying "nothing relevant"
		if strings.EqualFold(responseText, "null") {
			return nil, nil
		}

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			a.logger.Warn("error parsing analyzer response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		a.logger.Error("failed to parse analyzer response after retries", "err", lastErr)
		// The model repeatedly produced malformed output; a fresh call
		// from an outer retry loop will not help.
		return nil, retry.Permanent(lastErr)
	}

	if result.Clip == nil || result.Clip.Content == "" {
		return nil, nil
	}

	if err := core.ValidateRelevance(result.Clip.Relevance); err != nil {
		return nil, retry.Permanent(fmt.Errorf("analyzer contract violation: %w", err))
	}

	if result.Clip.Relevance < a.minRelevance {
		a.logger.Debug("finding below relevance threshold",
			"video", video.VideoID,
			"relevance", result.Clip.Relevance,
			"threshold", a.minRelevance)
		return nil, nil
	}

	return &ai.ClipFinding{
		Content:   result.Clip.Content,
		Timestamp: result.Clip.Timestamp,
		Relevance: result.Clip.Relevance,
	}, nil
}

// buildRelevanceInput renders the user message: the query, the video title,
// and the timestamped transcript.
func buildRelevanceInput(query string, video core.VideoRecord, segments []core.TranscriptSegment) string {
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\n\nVideo title: ")
	b.WriteString(video.Title)
	b.WriteString("\n\nTranscript:\n")
	for _, segment := range segments {
		b.WriteString("[")
		b.WriteString(core.FromSeconds(int(segment.Start)))
		b.WriteString("] ")
		b.WriteString(segment.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// stripFences removes markdown code fences that some models wrap around JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
