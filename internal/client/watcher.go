package client

import (
	"context"
	"sync"
	"time"

	"github.com/propmaint/backend/internal/logger"
	"github.com/propmaint/backend/internal/models"
	"github.com/propmaint/backend/internal/reconcile"
	"github.com/propmaint/backend/internal/schedule"
)

// DefaultPollInterval matches the server cache lifetime, so every poll
// sees a fresh snapshot.
const DefaultPollInterval = 30 * time.Second

// TaskSource is what the Watcher polls. *Client satisfies it.
type TaskSource interface {
	ListMaintenance(ctx context.Context, f schedule.Filter) ([]models.MaintenanceTask, error)
}

// Watcher keeps a Tracker fed with server snapshots. It fetches once on
// start, then every Interval while resumed. Resume and Refresh fetch
// immediately and restart the interval.
type Watcher struct {
	source  TaskSource
	tracker *reconcile.Tracker

	Interval   time.Duration
	OnSnapshot func([]models.MaintenanceTask)
	OnError    func(error)

	mu     sync.Mutex
	paused bool
	last   []models.MaintenanceTask
	wake   chan struct{}
}

func NewWatcher(source TaskSource, tracker *reconcile.Tracker) *Watcher {
	return &Watcher{
		source:   source,
		tracker:  tracker,
		Interval: DefaultPollInterval,
		wake:     make(chan struct{}, 1),
	}
}

// Run polls until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if !w.Paused() {
		w.poll(ctx)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !w.Paused() {
				w.poll(ctx)
			}
		case <-w.wake:
			ticker.Reset(interval)
			if !w.Paused() {
				w.poll(ctx)
			}
		}
	}
}

// Pause stops polling, e.g. while the view is in the background.
func (w *Watcher) Pause() {
	w.mu.Lock()
	w.paused = true
	w.mu.Unlock()
}

// Resume restarts polling with an immediate fetch.
func (w *Watcher) Resume() {
	w.mu.Lock()
	w.paused = false
	w.mu.Unlock()
	w.Refresh()
}

// Refresh requests an immediate fetch, e.g. after a local write.
func (w *Watcher) Refresh() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *Watcher) Paused() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.paused
}

// Snapshot returns the last tasks fetched.
func (w *Watcher) Snapshot() []models.MaintenanceTask {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.MaintenanceTask, len(w.last))
	copy(out, w.last)
	return out
}

func (w *Watcher) poll(ctx context.Context) {
	tasks, err := w.source.ListMaintenance(ctx, schedule.Filter{})
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.WithError(err, "watcher").Warn("Maintenance refresh failed")
		if w.OnError != nil {
			w.OnError(err)
		}
		return
	}
	w.mu.Lock()
	w.last = tasks
	w.mu.Unlock()
	if w.tracker != nil {
		w.tracker.Observe(tasks)
	}
	if w.OnSnapshot != nil {
		w.OnSnapshot(tasks)
	}
}
