package session

import (
	"context"
	"log/slog"
	"time"
)

// DefaultReapInterval is how often the reaper scans the store.
const DefaultReapInterval = 5 * time.Minute

// Reaper periodically evicts expired sessions so resource usage does
// not depend on traffic patterns. It runs independently of request
// handling; each pass holds the store lock only for one eviction sweep.
type Reaper struct {
	store    *Store
	interval time.Duration
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// ReaperOption configures a Reaper.
type ReaperOption func(*Reaper)

// WithInterval sets the scan interval. Default is DefaultReapInterval.
func WithInterval(interval time.Duration) ReaperOption {
	return func(r *Reaper) {
		if interval > 0 {
			r.interval = interval
		}
	}
}

// WithReaperLogger sets a custom logger.
// Default is slog.Default().
func WithReaperLogger(logger *slog.Logger) ReaperOption {
	return func(r *Reaper) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// NewReaper creates a reaper over the store. It does nothing until Start.
func NewReaper(store *Store, opts ...ReaperOption) *Reaper {
	r := &Reaper{
		store:    store,
		interval: DefaultReapInterval,
		logger:   slog.Default().With("component", "session-reaper"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the eviction loop in a goroutine. The loop stops when
// ctx is canceled or Stop is called.
func (r *Reaper) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.logger.Debug("reaper started", "interval", r.interval)
		for {
			select {
			case <-ctx.Done():
				r.logger.Debug("reaper stopped")
				return
			case <-ticker.C:
				r.store.EvictExpired()
			}
		}
	}()
}

// Stop halts the eviction loop and waits for it to exit.
// No-op if the reaper was never started.
func (r *Reaper) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}
