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

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/clipfind"
	"github.com/poiesic/clipfind/ai"
	"github.com/poiesic/clipfind/core"
	"github.com/poiesic/clipfind/session"
	"github.com/poiesic/clipfind/video/youtube"
	"github.com/poiesic/clipfind/web"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "clipfind",
		Usage: "Search videos and answer questions from their transcripts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serveCommand,
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "Listen address",
						Value:   ":8001",
					},
					&cli.StringFlag{
						Name:  "cache",
						Usage: "Transcript cache directory (empty for in-memory)",
					},
					&cli.DurationFlag{
						Name:  "session-ttl",
						Usage: "Session inactivity time-to-live",
						Value: session.DefaultTTL,
					},
					&cli.DurationFlag{
						Name:  "reap-interval",
						Usage: "Interval between expired-session sweeps",
						Value: session.DefaultReapInterval,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search for videos and print the session",
				ArgsUsage: "<keyword>",
				Action:    searchCommand,
				Flags: append(serviceFlags(),
					&cli.IntFlag{
						Name:    "max-results",
						Aliases: []string{"n"},
						Usage:   "Maximum number of videos",
						Value:   3,
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Search for videos and answer a question from their transcripts",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:     "keyword",
						Aliases:  []string{"k"},
						Usage:    "Search keyword (defaults to the question itself)",
						Required: false,
					},
					&cli.IntFlag{
						Name:    "max-results",
						Aliases: []string{"n"},
						Usage:   "Maximum number of videos",
						Value:   3,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// serviceFlags are the knobs shared by every command that builds a Service.
func serviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "youtube-api-key",
			Usage:   "YouTube Data API key",
			EnvVars: []string{"YOUTUBE_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "ai-host",
			Usage: "OpenAI-compatible API base URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "ai-model",
			Usage: "Model used for relevance scoring and answer synthesis",
			Value: "gpt-4o",
		},
		&cli.StringFlag{
			Name:    "ai-token",
			Usage:   "API token for the AI host",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "language",
			Usage: "Preferred transcript language",
			Value: "en",
		},
	}
}

func newService(c *cli.Context, cachePath string, extra ...clipfind.ServiceOption) (*clipfind.Service, error) {
	apiKey := c.String("youtube-api-key")
	if apiKey == "" {
		return nil, fmt.Errorf("youtube-api-key is required (flag or YOUTUBE_API_KEY)")
	}

	aiOpts := []ai.ConfigOption{
		ai.WithHost(c.String("ai-host")),
		ai.WithModel(c.String("ai-model")),
	}
	if token := c.String("ai-token"); token != "" {
		aiOpts = append(aiOpts, ai.WithToken(token))
	}
	aiConfig := ai.NewConfig(aiOpts...)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	youtubeConfig := youtube.NewConfig(youtube.WithAPIKey(apiKey))
	if err := youtubeConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid YouTube configuration: %w", err)
	}

	opts := append([]clipfind.ServiceOption{
		clipfind.WithAIConfig(aiConfig),
		clipfind.WithYouTubeConfig(youtubeConfig),
		clipfind.WithTranscriptLanguage(c.String("language")),
	}, extra...)

	return clipfind.NewService(cachePath, opts...)
}

func serveCommand(c *cli.Context) error {
	svc, err := newService(c, c.String("cache"),
		clipfind.WithSessionTTL(c.Duration("session-ttl")),
		clipfind.WithReapInterval(c.Duration("reap-interval")))
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc.StartReaper(ctx)

	server, err := web.NewServer(svc)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe(c.String("addr"))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func searchCommand(c *cli.Context) error {
	keyword := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if keyword == "" {
		return fmt.Errorf("a search keyword is required")
	}

	svc, err := newService(c, "")
	if err != nil {
		return err
	}
	defer svc.Close()

	sess, err := svc.CreateSession(c.Context, keyword, c.Int("max-results"))
	if err != nil {
		return err
	}

	fmt.Printf("Session %s (%d videos)\n\n", sess.ID, len(sess.Videos))
	for _, record := range sess.Videos {
		printVideo(sess, &record)
	}
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}
	keyword := c.String("keyword")
	if keyword == "" {
		keyword = question
	}

	svc, err := newService(c, "")
	if err != nil {
		return err
	}
	defer svc.Close()

	sess, err := svc.CreateSession(c.Context, keyword, c.Int("max-results"))
	if err != nil {
		return err
	}

	result, err := svc.AnalyzeSession(c.Context, sess.ID, question)
	if err != nil {
		return err
	}

	if len(result.Clips) == 0 {
		fmt.Println("No relevant clips found.")
	}
	for i, clip := range result.Clips {
		fmt.Printf("%d. [%s] %s (%.2f)\n   %s\n   %s\n\n",
			i+1, clip.Timestamp, clip.VideoTitle, clip.Relevance, clip.Content, clip.DeepLink)
	}

	fmt.Printf("Answer (confidence %.2f):\n%s\n", result.Confidence, result.Answer)
	return nil
}

func printVideo(sess *core.Session, record *core.VideoRecord) {
	captions := "no captions"
	if len(sess.Segments(record.VideoID)) > 0 {
		captions = "captions available"
	}
	fmt.Printf("%s\n  %s | %s | %d views | %s\n  %s\n\n",
		record.Title, record.ChannelTitle, record.DurationDisplay(),
		record.ViewCount, captions, record.WatchURL())
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
