package service

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// IdleEvictor drops per-profile state unused for longer than a ttl.
type IdleEvictor interface {
	EvictIdle(ttl time.Duration) int
}

// SessionSweeper periodically evicts idle per-profile state.
type SessionSweeper struct {
	evictors []IdleEvictor
	ttl      time.Duration
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewSessionSweeper creates a new SessionSweeper.
func NewSessionSweeper(ttl, interval time.Duration, evictors ...IdleEvictor) *SessionSweeper {
	return &SessionSweeper{
		evictors: evictors,
		ttl:      ttl,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start sweeps every interval until the context is done or Stop is called.
func (w *SessionSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("Session sweeper started", slog.Duration("interval", w.interval), slog.Duration("ttl", w.ttl))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Session sweeper stopped by context")
			return
		case <-w.stopChan:
			slog.Info("Session sweeper stopped")
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Stop stops the sweeper. Calling it more than once is safe.
func (w *SessionSweeper) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
}

// Sweep runs one eviction pass and returns the number of evicted entries.
func (w *SessionSweeper) Sweep() int {
	total := 0
	for _, e := range w.evictors {
		total += e.EvictIdle(w.ttl)
	}
	if total > 0 {
		slog.Info("Evicted idle sessions", slog.Int("count", total))
	}
	return total
}
