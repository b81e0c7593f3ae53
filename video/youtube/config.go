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


package youtube

import (
	"errors"
	"net/http"
	"time"
)

// Config holds configuration for the YouTube clients.
type Config struct {
	// APIKey is the YouTube Data API v3 key. Required for the catalog
	// client; the timedtext endpoint does not use it.
	APIKey string

	// DataAPIBaseURL is the base URL of the Data API.
	// Default: "https://www.googleapis.com/youtube/v3". Overridable for tests.
	DataAPIBaseURL string

	// TimedtextBaseURL is the base URL of the caption endpoint.
	// Default: "https://video.google.com/timedtext". Overridable for tests.
	TimedtextBaseURL string

	// RequestTimeout bounds each individual HTTP request.
	// Default: 30 seconds.
	RequestTimeout time.Duration

	// HTTPClient is the client used for all requests. Default:
	// a dedicated client with RequestTimeout applied.
	HTTPClient *http.Client
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAPIKey sets the Data API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithDataAPIBaseURL overrides the Data API base URL.
func WithDataAPIBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.DataAPIBaseURL = url
	}
}

// WithTimedtextBaseURL overrides the caption endpoint base URL.
func WithTimedtextBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.TimedtextBaseURL = url
	}
}

// WithRequestTimeout sets the per-request timeout.
func WithRequestTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.RequestTimeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client, e.g. one configured for a proxy.
func WithHTTPClient(client *http.Client) ConfigOption {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// DefaultConfig returns a Config with production endpoints and a 30s timeout.
func DefaultConfig() *Config {
	return &Config{
		DataAPIBaseURL:   "https://www.googleapis.com/youtube/v3",
		TimedtextBaseURL: "https://video.google.com/timedtext",
		RequestTimeout:   30 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is valid and complete, and
// installs the default HTTP client when none was supplied.
func (c *Config) Validate() error {
	if c.DataAPIBaseURL == "" {
		return errors.New("youtube config: DataAPIBaseURL is required")
	}
	if c.TimedtextBaseURL == "" {
		return errors.New("youtube config: TimedtextBaseURL is required")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("youtube config: RequestTimeout must be positive")
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.RequestTimeout}
	}
	return nil
}
