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


package session

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/clipfind/core"
)

// DefaultTTL is the inactivity window after which a session expires.
const DefaultTTL = 1 * time.Hour

// Store owns the lifecycle of every session: creation, lookup,
// last-access updates, and time-based eviction. It is safe for
// concurrent use; a single lock guards the map, which sessions are
// rarely mutated through after creation.
//
// Construct one Store at process start and inject it; there is no
// package-level instance.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
	ttl      time.Duration
	logger   *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithTTL sets the inactivity TTL. Default is DefaultTTL.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewStore creates an empty session store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		sessions: make(map[string]*core.Session),
		ttl:      DefaultTTL,
		logger:   slog.Default().With("component", "session-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the store's inactivity TTL.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create allocates a session for the keyword with a fresh random id and
// inserts it into the store. The id is 128 bits of randomness, unique
// for the process lifetime for any practical purpose.
func (s *Store) Create(keyword string) *core.Session {
	now := time.Now()
	sess := &core.Session{
		ID:           newSessionID(),
		Keyword:      keyword,
		CreatedAt:    now,
		LastAccessed: now,
		Transcripts:  make(map[string][]core.TranscriptSegment),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Debug("session created", "sessionID", sess.ID, "keyword", keyword)
	return snapshot(sess)
}

// AddVideo appends a video (and its transcript segments, when any) to a
// session. Sessions are append-only during creation; returns
// ErrSessionNotFound if the session was evicted in the meantime.
func (s *Store) AddVideo(id string, video core.VideoRecord, segments []core.TranscriptSegment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	sess.AddVideo(video, segments)
	return nil
}

// Get returns a snapshot of the session, expired or not.
// Fails with ErrSessionNotFound if the id is absent.
func (s *Store) Get(id string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return snapshot(sess), nil
}

// GetActive returns a snapshot of the session and refreshes its
// last-access time. Fails with ErrSessionNotFound for an absent id and
// ErrSessionExpired for a session past its TTL.
func (s *Store) GetActive(id string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.IsExpired(s.ttl) {
		return nil, ErrSessionExpired
	}
	sess.LastAccessed = time.Now()
	return snapshot(sess), nil
}

// Touch updates the session's last-access time. No-op if the id is absent.
func (s *Store) Touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.LastAccessed = time.Now()
	}
}

// Delete removes a session outright. No-op if the id is absent.
// Used to discard a session whose construction failed partway.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; ok {
		delete(s.sessions, id)
		s.logger.Debug("session deleted", "sessionID", id)
	}
}

// EvictExpired removes every session past the TTL and returns the count
// removed. Safe to call concurrently with Create/Get/Touch.
func (s *Store) EvictExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.IsExpired(s.ttl) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("evicted expired sessions", "count", removed, "remaining", len(s.sessions))
	}
	return removed
}

// Len returns the number of stored sessions, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// snapshot returns a copy of the session so callers never share mutable
// state with the store. Videos and Transcripts are append-only during
// creation and immutable afterwards, so sharing the backing arrays is safe.
func snapshot(sess *core.Session) *core.Session {
	cp := *sess
	return &cp
}

func newSessionID() string {
	buf := make([]byte, 16)
	rand.Read(buf) // crypto/rand.Read never fails on supported platforms
	return hex.EncodeToString(buf)
}
