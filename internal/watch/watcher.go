package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ScanFunc runs one full scan pass over the current page snapshot. It must
// be synchronous; the watcher never starts a second pass while one runs.
type ScanFunc func(ctx context.Context)

// Config for the watcher's three trigger schedules.
type Config struct {
	// PollInterval drives the recurring scan that catches silent re-renders
	// no change notification fires for (virtualized grids reuse nodes).
	PollInterval time.Duration
	// Debounce delays change-triggered scans so bursts of mutations
	// coalesce into one pass.
	Debounce time.Duration
	// StartupBursts are one-shot scan delays after Start, covering slow
	// initial page renders.
	StartupBursts []time.Duration
}

// Watcher funnels all scan triggers (startup burst, poll, change
// notifications) through a single guarded loop: at most one active pass and
// at most one pending pass at any time. Overlapping triggers coalesce.
type Watcher struct {
	scan   ScanFunc
	cfg    Config
	logger *slog.Logger

	trigger chan struct{} // buffered(1): the pending-pass slot

	mu       sync.Mutex
	debounce *time.Timer
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewWatcher creates a new scan watcher
func NewWatcher(scan ScanFunc, cfg Config, logger *slog.Logger) *Watcher {
	return &Watcher{
		scan:    scan,
		cfg:     cfg,
		logger:  logger.With("component", "watcher"),
		trigger: make(chan struct{}, 1),
	}
}

// Start launches the scan loop and its trigger schedules.
func (w *Watcher) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.cancel = cancel
	w.done = make(chan struct{})
	w.mu.Unlock()

	go w.run(ctx)

	for _, delay := range w.cfg.StartupBursts {
		go func(d time.Duration) {
			select {
			case <-time.After(d):
				w.request()
			case <-ctx.Done():
			}
		}(delay)
	}

	if w.cfg.PollInterval > 0 {
		go w.poll(ctx)
	}

	w.logger.Info("watcher started",
		"poll_interval", w.cfg.PollInterval,
		"debounce", w.cfg.Debounce,
		"bursts", len(w.cfg.StartupBursts))
}

// Stop halts all schedules and waits for an in-flight pass to finish.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Notify signals that the page changed in a row-like way. The resulting scan
// is debounced; callers may invoke this as often as they like.
func (w *Watcher) Notify() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cfg.Debounce <= 0 {
		go w.request()
		return
	}
	if w.debounce == nil {
		w.debounce = time.AfterFunc(w.cfg.Debounce, w.request)
		return
	}
	w.debounce.Reset(w.cfg.Debounce)
}

// ScanNow requests an immediate pass, bypassing the debounce. Used by the
// dashboard's manual rescan.
func (w *Watcher) ScanNow() {
	w.request()
}

// request claims the single pending-pass slot; if it is already taken the
// trigger coalesces with the pending pass.
func (w *Watcher) request() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.trigger:
			w.scan(ctx)
		}
	}
}

func (w *Watcher) poll(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.request()
		}
	}
}
