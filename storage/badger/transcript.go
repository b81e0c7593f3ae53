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

package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/clipfind/core"
	"github.com/poiesic/clipfind/storage"
)

const defaultRetention = 24 * time.Hour

// TranscriptCache implements storage.TranscriptCache for BadgerDB.
// Entries expire after the configured retention period.
type TranscriptCache struct {
	backend   *Backend
	retention time.Duration
}

var _ storage.TranscriptCache = (*TranscriptCache)(nil)

// TranscriptCacheOption configures a TranscriptCache.
type TranscriptCacheOption func(*TranscriptCache)

// WithRetention overrides the default entry retention period.
func WithRetention(d time.Duration) TranscriptCacheOption {
	return func(c *TranscriptCache) {
		if d > 0 {
			c.retention = d
		}
	}
}

// NewTranscriptCache creates a new TranscriptCache.
func NewTranscriptCache(backend *Backend, opts ...TranscriptCacheOption) (*TranscriptCache, error) {
	cache := &TranscriptCache{
		backend:   backend,
		retention: defaultRetention,
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache, nil
}

// Close releases resources. TranscriptCache has no resources to release.
func (c *TranscriptCache) Close() error {
	return nil
}

// Get retrieves cached transcript segments for a video and language.
// Returns found=false when no entry exists or the entry has expired.
func (c *TranscriptCache) Get(ctx context.Context, videoID, language string) ([]core.TranscriptSegment, bool, error) {
	if c.backend.IsClosed() {
		return nil, false, storage.ErrStorageClosed
	}

	key := makeTranscriptKey(storage.CacheKeyID(videoID, language))

	var segments []core.TranscriptSegment
	found := false
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			segments, err = storage.UnmarshalSegments(val)
			if err != nil {
				return err
			}
			found = true
			return nil
		})
	}, false)
	if err != nil {
		return nil, false, err
	}

	return segments, found, nil
}

// Put stores transcript segments for a video and language.
// The entry expires after the retention period.
func (c *TranscriptCache) Put(ctx context.Context, videoID, language string, segments []core.TranscriptSegment) error {
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	key := makeTranscriptKey(storage.CacheKeyID(videoID, language))
	value := storage.MarshalSegments(segments)

	return c.backend.WithTx(func(tx *badger.Txn) error {
		entry := badger.NewEntry(key, value).WithTTL(c.retention)
		if err := tx.SetEntry(entry); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
