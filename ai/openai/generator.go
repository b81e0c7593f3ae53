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
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/clipfind/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// AnswerGenerator implements ai.AnswerGenerator using OpenAI-compatible chat APIs.
type AnswerGenerator struct {
	client  llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

// answerResponse matches the JSON structure the synthesis prompt requests.
type answerResponse struct {
	Summary    string  `json:"summary"`
	Confidence float64 `json:"confidence"`
}

// newAnswerGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAnswerGenerator(config *ai.Config) (*AnswerGenerator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.GeneratorHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, err
	}

	return &AnswerGenerator{
		client:  client,
		timeout: config.RequestTimeout,
		logger:  slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewAnswerGenerator creates a new answer generator using the provided configuration.
//
// Returns ai.AnswerGenerator interface to enforce abstraction.
func NewAnswerGenerator(config *ai.Config) (ai.AnswerGenerator, error) {
	return newAnswerGenerator(config)
}

// SynthesizeAnswer produces an answer to the query. A non-empty contextText
// grounds the answer in the supplied transcript excerpts; an empty one asks
// the model to answer from general knowledge and to say so.
func (g *AnswerGenerator) SynthesizeAnswer(ctx context.Context, query, contextText string) (ai.Answer, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	systemPrompt := groundedAnswerPrompt
	userInput := "Question: " + query + "\n\nVideo excerpts:\n" + contextText
	if contextText == "" {
		systemPrompt = knowledgeAnswerPrompt
		userInput = "Question: " + query
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userInput),
			},
		},
	}

	response, err := g.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.7), llms.WithJSONMode(), llms.WithMaxTokens(300))
	if err != nil {
		g.logger.Error("failed to generate answer", "err", err)
		return ai.Answer{}, err
	}

	if len(response.Choices) < 1 {
		g.logger.Debug("no choices returned from model")
		return ai.Answer{}, nil
	}

	responseText := stripFences(response.Choices[0].Content)
	if responseText == "" || strings.EqualFold(responseText, "null") {
		return ai.Answer{}, nil
	}

	// Models occasionally ignore JSON mode; a parse failure degrades to
	// treating the raw text as the answer.
	var result answerResponse
	if err := json.Unmarshal([]byte(responseText), &result); err != nil {
		g.logger.Warn("answer response was not JSON, using raw text", "err", err)
		return ai.Answer{Summary: responseText}, nil
	}

	return ai.Answer{
		Summary:    strings.TrimSpace(result.Summary),
		Confidence: result.Confidence,
	}, nil
}
