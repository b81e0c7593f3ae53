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
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/poiesic/clipfind/core"
	"github.com/poiesic/clipfind/video"
)

// Transcripts implements video.TranscriptProvider over the timedtext
// caption endpoint. Track selection prefers manually created captions
// over auto-generated ones, and the caller's preferred language over
// whatever is listed first.
type Transcripts struct {
	config *Config
	logger *slog.Logger
}

var _ video.TranscriptProvider = (*Transcripts)(nil)

// trackList is the caption track listing for a video.
type trackList struct {
	XMLName xml.Name `xml:"transcript_list"`
	Tracks  []struct {
		LangCode string `xml:"lang_code,attr"`
		Kind     string `xml:"kind,attr"` // "asr" for auto-generated
	} `xml:"track"`
}

// transcriptXML is the caption body for one track.
type transcriptXML struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Start    float64 `xml:"start,attr"`
		Duration float64 `xml:"dur,attr"`
		Body     string  `xml:",chardata"`
	} `xml:"text"`
}

// NewTranscripts creates a transcript client.
func NewTranscripts(config *Config) (*Transcripts, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Transcripts{
		config: config,
		logger: slog.Default().With("component", "youtube-transcripts"),
	}, nil
}

// Fetch returns the transcript of videoID in the best available track,
// or (nil, nil) when the video has no captions at all.
func (t *Transcripts) Fetch(ctx context.Context, videoID, preferredLanguage string) ([]core.TranscriptSegment, error) {
	lang, kind, ok, err := t.pickTrack(ctx, videoID, preferredLanguage)
	if err != nil {
		return nil, err
	}
	if !ok {
		t.logger.Debug("no caption tracks", "videoID", videoID)
		return nil, nil
	}

	query := url.Values{
		"v":    {videoID},
		"lang": {lang},
	}
	if kind != "" {
		query.Set("kind", kind)
	}

	body, err := t.get(ctx, t.config.TimedtextBaseURL+"?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var decoded transcriptXML
	if err := xml.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("parse transcript for %s: %w", videoID, err)
	}

	segments := make([]core.TranscriptSegment, 0, len(decoded.Texts))
	for _, text := range decoded.Texts {
		segment := core.TranscriptSegment{
			Text:     html.UnescapeString(strings.TrimSpace(text.Body)),
			Start:    text.Start,
			Duration: text.Duration,
		}
		if segment.Text == "" {
			continue
		}
		if err := core.ValidateSegment(&segment); err != nil {
			t.logger.Warn("dropping invalid segment", "videoID", videoID, "err", err)
			continue
		}
		segments = append(segments, segment)
	}

	if len(segments) == 0 {
		return nil, nil
	}
	return segments, nil
}

// pickTrack lists the caption tracks and selects one: the preferred
// language when listed, then any manual track, then any auto-generated
// track. ok is false when the video has no tracks.
func (t *Transcripts) pickTrack(ctx context.Context, videoID, preferredLanguage string) (lang, kind string, ok bool, err error) {
	query := url.Values{
		"type": {"list"},
		"v":    {videoID},
	}

	body, err := t.get(ctx, t.config.TimedtextBaseURL+"?"+query.Encode())
	if err != nil {
		return "", "", false, err
	}

	// An empty body means no caption tracks exist.
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", "", false, nil
	}

	var list trackList
	if err := xml.Unmarshal(body, &list); err != nil {
		return "", "", false, fmt.Errorf("parse track list for %s: %w", videoID, err)
	}
	if len(list.Tracks) == 0 {
		return "", "", false, nil
	}

	type candidate struct {
		lang, kind string
	}
	var manual, auto []candidate
	for _, track := range list.Tracks {
		if track.Kind == "asr" {
			auto = append(auto, candidate{track.LangCode, track.Kind})
		} else {
			manual = append(manual, candidate{track.LangCode, track.Kind})
		}
	}

	// Manual tracks always beat auto-generated ones; the preferred
	// language only reorders within the winning tier.
	tier := manual
	if len(tier) == 0 {
		tier = auto
	}
	for _, c := range tier {
		if preferredLanguage != "" && c.lang == preferredLanguage {
			return c.lang, c.kind, true, nil
		}
	}
	return tier[0].lang, tier[0].kind, true, nil
}

func (t *Transcripts) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := t.config.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", video.ErrTranscriptFetchFailed, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
