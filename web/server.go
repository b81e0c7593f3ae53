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

package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/clipfind/core"
)

const (
	defaultMaxResults = 3
	maxMaxResults     = 10

	// Request bodies are tiny; anything larger is garbage.
	maxBodyBytes = 1 << 16
)

// Pipeline is the part of the service the HTTP layer needs.
type Pipeline interface {
	CreateSession(ctx context.Context, keyword string, maxResults int) (*core.Session, error)
	AnalyzeSession(ctx context.Context, sessionID, query string) (*core.Analysis, error)
	SessionTTL() time.Duration
}

// Server serves the JSON API over HTTP.
type Server struct {
	pipeline Pipeline
	logger   *slog.Logger
	srv      *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewServer creates an HTTP server around the pipeline.
func NewServer(pipeline Pipeline, opts ...Option) (*Server, error) {
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}

	s := &Server{
		pipeline: pipeline,
		logger:   slog.Default().With("component", "web"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler returns the routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("POST /sessions/{id}/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /health", s.handleHealth)
	return cors(mux)
}

// ListenAndServe blocks serving the API on addr until Shutdown is called
// or the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // session builds can be slow
	}
	s.logger.Info("listening", "addr", addr)
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops a running server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// cors allows browser frontends on any origin, mirroring the permissive
// middleware the API has always shipped with.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
