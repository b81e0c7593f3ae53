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
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/poiesic/clipfind/fetch"
	"github.com/poiesic/clipfind/session"
	"github.com/poiesic/clipfind/video"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !s.decode(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Keyword) == "" {
		s.writeError(w, http.StatusBadRequest, "keyword is required")
		return
	}
	if req.MaxResults <= 0 {
		req.MaxResults = defaultMaxResults
	}
	if req.MaxResults > maxMaxResults {
		req.MaxResults = maxMaxResults
	}

	sess, err := s.pipeline.CreateSession(r.Context(), req.Keyword, req.MaxResults)
	if err != nil {
		switch {
		case errors.Is(err, fetch.ErrEmptyKeyword):
			s.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, video.ErrCatalogUnavailable):
			s.writeError(w, http.StatusBadGateway, err.Error())
		default:
			s.logger.Error("search failed", "keyword", req.Keyword, "err", err)
			s.writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	resp := searchResponse{
		SessionID: sess.ID,
		Keyword:   sess.Keyword,
		Videos:    make([]videoInfo, 0, len(sess.Videos)),
		CreatedAt: sess.CreatedAt,
		ExpiresAt: sess.LastAccessed.Add(s.pipeline.SessionTTL()),
	}
	for _, record := range sess.Videos {
		resp.Videos = append(resp.Videos, videoInfo{
			VideoID:      record.VideoID,
			Title:        record.Title,
			ChannelTitle: record.ChannelTitle,
			Duration:     record.DurationDisplay(),
			ViewCount:    record.ViewCount,
			PublishedAt:  record.PublishedAt,
			ThumbnailURL: record.ThumbnailURL,
			HasSubtitles: len(sess.Segments(record.VideoID)) > 0,
			WatchURL:     record.WatchURL(),
		})
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	var req analyzeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	result, err := s.pipeline.AnalyzeSession(r.Context(), sessionID, req.Query)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSessionNotFound):
			s.writeError(w, http.StatusNotFound, "session not found")
		case errors.Is(err, session.ErrSessionExpired):
			s.writeError(w, http.StatusGone, "session expired")
		default:
			s.logger.Error("analysis failed", "session_id", sessionID, "err", err)
			s.writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	resp := analyzeResponse{
		Clips:      make([]videoClip, 0, len(result.Clips)),
		TotalClips: len(result.Clips),
		Answer:     result.Answer,
		Confidence: result.Confidence,
	}
	for _, clip := range result.Clips {
		resp.Clips = append(resp.Clips, videoClip{
			VideoID:    clip.VideoID,
			VideoTitle: clip.VideoTitle,
			Content:    clip.Content,
			Timestamp:  clip.Timestamp,
			Relevance:  clip.Relevance,
			URL:        clip.DeepLink,
		})
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads a JSON body into v, answering 400 on malformed input.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("error encoding response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, errorResponse{Detail: detail})
}
