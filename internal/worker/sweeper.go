package worker

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/tennis-web/internal/config"
	"github.com/tennis-web/internal/session"
)

// SessionSweeper periodically removes session state idle for longer than
// the session TTL from every registered target
type SessionSweeper struct {
	targets map[string]session.Sweeper
	config  *config.SweeperConfig
	ttl     time.Duration
	logger  *slog.Logger
	now     func() time.Time
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool
}

// NewSessionSweeper creates a new sweeper
func NewSessionSweeper(cfg *config.SweeperConfig, ttl time.Duration, logger *slog.Logger) *SessionSweeper {
	return &SessionSweeper{
		targets: make(map[string]session.Sweeper),
		config:  cfg,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Add registers a target under name. Call before Start.
func (w *SessionSweeper) Add(name string, target session.Sweeper) {
	w.mu.Lock()
	w.targets[name] = target
	w.mu.Unlock()
}

// Start begins the background sweep
func (w *SessionSweeper) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info("session sweeper started", "interval", w.config.Interval, "ttl", w.ttl)

	go w.run(ctx)
	return nil
}

// Stop stops the background sweep
func (w *SessionSweeper) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("session sweeper stopped")
	return nil
}

// run is the main worker loop
func (w *SessionSweeper) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce runs a single sweep and returns the number of removed entries
func (w *SessionSweeper) RunOnce(ctx context.Context) int64 {
	startTime := time.Now()
	cutoff := w.now().Add(-w.ttl)

	w.mu.Lock()
	names := make([]string, 0, len(w.targets))
	for name := range w.targets {
		names = append(names, name)
	}
	w.mu.Unlock()
	sort.Strings(names)

	var removed int64
	errorCount := 0
	for _, name := range names {
		w.mu.Lock()
		target := w.targets[name]
		w.mu.Unlock()

		n, err := target.DeleteIdle(ctx, cutoff)
		if err != nil {
			w.logger.Error("failed to sweep idle sessions", "target", name, "error", err)
			errorCount++
			continue
		}
		removed += n
	}

	w.logger.Info("sweep cycle completed",
		"duration", time.Since(startTime),
		"removed", removed,
		"errors", errorCount,
	)
	return removed
}

// IsRunning returns whether the worker is currently running
func (w *SessionSweeper) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
