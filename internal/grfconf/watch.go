package grfconf

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FileWatcher polls file modification times and triggers a callback on change.
type FileWatcher struct {
	Paths    []string
	Interval time.Duration

	onChange  func(string) // called with path that changed
	logger    *zap.Logger
	mu        sync.Mutex
	lastMTime map[string]time.Time
}

// NewFileWatcher creates a watcher for given paths and interval. A nil logger
// disables logging.
func NewFileWatcher(paths []string, interval time.Duration, logger *zap.Logger, onChange func(string)) *FileWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileWatcher{
		Paths:     paths,
		Interval:  interval,
		onChange:  onChange,
		logger:    logger,
		lastMTime: make(map[string]time.Time),
	}
}

// Add starts watching path. Its current modification time counts as seen.
func (w *FileWatcher) Add(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range w.Paths {
		if p == path {
			return
		}
	}
	w.Paths = append(w.Paths, path)
	if fi, err := os.Stat(path); err == nil {
		w.lastMTime[path] = fi.ModTime()
	}
}

// Start primes the modification times and polls in a goroutine until ctx is
// done. Changes made after Start returns are always reported.
func (w *FileWatcher) Start(ctx context.Context) {
	w.Scan(true)
	ticker := time.NewTicker(w.Interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.Scan(false)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Scan checks mtimes and invokes onChange for files that changed since the
// last scan. Files appearing for the first time count as changed unless prime
// is set.
func (w *FileWatcher) Scan(prime bool) []string {
	w.mu.Lock()
	var changed []string
	for _, p := range w.Paths {
		fi, err := os.Stat(p)
		if err != nil {
			// missing files are picked up once they appear
			continue
		}
		mt := fi.ModTime()
		last, ok := w.lastMTime[p]
		if ok && !mt.After(last) {
			continue
		}
		w.lastMTime[p] = mt
		if !prime {
			changed = append(changed, p)
		}
	}
	w.mu.Unlock()

	for _, p := range changed {
		w.logger.Info("definition changed", zap.String("path", p))
		if w.onChange != nil {
			w.onChange(p)
		}
	}
	return changed
}
