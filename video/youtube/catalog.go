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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/clipfind/core"
	"github.com/poiesic/clipfind/video"
)

// Catalog implements video.CatalogProvider over the YouTube Data API v3.
// A search is two calls: search.list for the ranked video ids, then
// videos.list for snippet, duration, and statistics.
type Catalog struct {
	config *Config
	logger *slog.Logger
}

var _ video.CatalogProvider = (*Catalog)(nil)

// searchListResponse is the subset of search.list we consume.
type searchListResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

// videoListResponse is the subset of videos.list we consume.
type videoListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
			Thumbnails   struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// NewCatalog creates a catalog client. The config must carry an API key.
func NewCatalog(config *Config) (*Catalog, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.APIKey == "" {
		return nil, errors.New("youtube catalog: APIKey is required")
	}

	return &Catalog{
		config: config,
		logger: slog.Default().With("component", "youtube-catalog"),
	}, nil
}

// Search returns up to maxResults videos for the keyword, in the API's
// relevance order. Records that fail validation are dropped with a log line.
func (c *Catalog) Search(ctx context.Context, keyword string, maxResults int) ([]core.VideoRecord, error) {
	ids, err := c.searchIDs(ctx, keyword, maxResults)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		c.logger.Info("no videos found", "keyword", keyword)
		return nil, nil
	}

	byID, err := c.videoDetails(ctx, ids)
	if err != nil {
		return nil, err
	}

	// videos.list does not guarantee order; reassemble in search order.
	records := make([]core.VideoRecord, 0, len(ids))
	for _, id := range ids {
		record, ok := byID[id]
		if !ok {
			continue
		}
		if err := core.ValidateVideoRecord(&record); err != nil {
			c.logger.Warn("dropping invalid catalog record", "videoID", id, "err", err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (c *Catalog) searchIDs(ctx context.Context, keyword string, maxResults int) ([]string, error) {
	query := url.Values{
		"part":       {"id"},
		"type":       {"video"},
		"q":          {keyword},
		"maxResults": {strconv.Itoa(maxResults)},
		"key":        {c.config.APIKey},
	}

	var decoded searchListResponse
	if err := c.getJSON(ctx, c.config.DataAPIBaseURL+"/search?"+query.Encode(), &decoded); err != nil {
		return nil, fmt.Errorf("search.list: %w", err)
	}

	ids := make([]string, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	return ids, nil
}

func (c *Catalog) videoDetails(ctx context.Context, ids []string) (map[string]core.VideoRecord, error) {
	query := url.Values{
		"part": {"snippet,contentDetails,statistics"},
		"id":   {strings.Join(ids, ",")},
		"key":  {c.config.APIKey},
	}

	var decoded videoListResponse
	if err := c.getJSON(ctx, c.config.DataAPIBaseURL+"/videos?"+query.Encode(), &decoded); err != nil {
		return nil, fmt.Errorf("videos.list: %w", err)
	}

	byID := make(map[string]core.VideoRecord, len(decoded.Items))
	for _, item := range decoded.Items {
		record := core.VideoRecord{
			VideoID:      item.ID,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
			Duration:     item.ContentDetails.Duration,
			ThumbnailURL: item.Snippet.Thumbnails.High.URL,
		}

		if secs, err := core.ParseISODuration(item.ContentDetails.Duration); err == nil {
			record.DurationSecs = secs
		} else {
			c.logger.Debug("unparsable duration", "videoID", item.ID, "duration", item.ContentDetails.Duration)
		}

		if item.Statistics.ViewCount != "" {
			if views, err := strconv.ParseInt(item.Statistics.ViewCount, 10, 64); err == nil {
				record.ViewCount = views
			}
		}

		if published, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			record.PublishedAt = published
		}

		byID[item.ID] = record
	}
	return byID, nil
}

// getJSON performs one GET and decodes the body. Non-2xx responses are
// errors carrying the status so callers can decide whether to retry.
func (c *Catalog) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
