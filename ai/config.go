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


package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for AI service providers.
type Config struct {
	// AnalyzerHost is the base URL for the relevance-scoring service API.
	// Example: "https://api.openai.com/v1", or "http://localhost:11434/v1"
	// for a local OpenAI-compatible server.
	AnalyzerHost string

	// GeneratorHost is the base URL for the answer-synthesis service API.
	GeneratorHost string

	// AnalyzerModel is the model identifier used for relevance scoring.
	// Example: "gpt-4o", "qwen2.5:3b"
	AnalyzerModel string

	// GeneratorModel is the model identifier used for answer synthesis.
	GeneratorModel string

	// Token is the API token. Use "none" for local OpenAI-compatible
	// services that don't require authentication.
	Token string

	// RequestTimeout bounds each individual model call.
	// Default: 30 seconds.
	RequestTimeout time.Duration

	// MinRelevance is the minimum relevance score in [0, 1] for a clip
	// finding to be kept. Findings below the threshold are treated as
	// "no relevant segment". Default: 0 (keep everything).
	MinRelevance float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAnalyzerHost sets the relevance-scoring service host URL.
func WithAnalyzerHost(host string) ConfigOption {
	return func(c *Config) {
		c.AnalyzerHost = host
	}
}

// WithGeneratorHost sets the answer-synthesis service host URL.
func WithGeneratorHost(host string) ConfigOption {
	return func(c *Config) {
		c.GeneratorHost = host
	}
}

// WithHost sets both analyzer and generator hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.AnalyzerHost = host
		c.GeneratorHost = host
	}
}

// WithAnalyzerModel sets the relevance-scoring model identifier.
func WithAnalyzerModel(model string) ConfigOption {
	return func(c *Config) {
		c.AnalyzerModel = model
	}
}

// WithGeneratorModel sets the answer-synthesis model identifier.
func WithGeneratorModel(model string) ConfigOption {
	return func(c *Config) {
		c.GeneratorModel = model
	}
}

// WithModel sets both analyzer and generator models to the same identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.AnalyzerModel = model
		c.GeneratorModel = model
	}
}

// WithToken sets the API token.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// WithRequestTimeout sets the per-call timeout.
func WithRequestTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.RequestTimeout = timeout
	}
}

// WithMinRelevance sets the minimum relevance threshold for clip findings.
func WithMinRelevance(min float64) ConfigOption {
	return func(c *Config) {
		c.MinRelevance = min
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services. By default, analyzer and generator
// use the same host and model.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		AnalyzerHost:   defaultHost,
		GeneratorHost:  defaultHost,
		AnalyzerModel:  "gpt-4o",
		GeneratorModel: "gpt-4o",
		Token:          "none",
		RequestTimeout: 30 * time.Second,
		MinRelevance:   0,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithHost("https://api.openai.com/v1"),
//	    ai.WithToken(os.Getenv("OPENAI_API_KEY")),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (OpenAI, Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.AnalyzerHost != "" && !strings.HasSuffix(c.AnalyzerHost, "/v1") {
		c.AnalyzerHost = strings.TrimSuffix(c.AnalyzerHost, "/")
		c.AnalyzerHost = c.AnalyzerHost + "/v1"
	}
	if c.GeneratorHost != "" && !strings.HasSuffix(c.GeneratorHost, "/v1") {
		c.GeneratorHost = strings.TrimSuffix(c.GeneratorHost, "/")
		c.GeneratorHost = c.GeneratorHost + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.AnalyzerHost == "" {
		return errors.New("ai config: AnalyzerHost is required")
	}
	if c.GeneratorHost == "" {
		return errors.New("ai config: GeneratorHost is required")
	}
	if c.AnalyzerModel == "" {
		return errors.New("ai config: AnalyzerModel is required")
	}
	if c.GeneratorModel == "" {
		return errors.New("ai config: GeneratorModel is required")
	}
	if c.Token == "" {
		return errors.New("ai config: Token is required")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("ai config: RequestTimeout must be positive")
	}
	if c.MinRelevance < 0 || c.MinRelevance > 1 {
		return errors.New("ai config: MinRelevance must be between 0 and 1")
	}
	return nil
}
