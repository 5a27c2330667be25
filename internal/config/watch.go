package config

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// FileWatcher polls file modification times and calls onChange for each
// path that changed since the previous scan.
type FileWatcher struct {
	Paths     []string
	Interval  time.Duration
	onChange  func(string)
	lastMTime map[string]time.Time
}

// NewFileWatcher creates a watcher for paths.
func NewFileWatcher(paths []string, interval time.Duration, onChange func(string)) *FileWatcher {
	return &FileWatcher{
		Paths:     paths,
		Interval:  interval,
		onChange:  onChange,
		lastMTime: make(map[string]time.Time),
	}
}

// Run polls until ctx is done.
func (w *FileWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	w.scanAll(true)
	for {
		select {
		case <-ticker.C:
			w.scanAll(false)
		case <-ctx.Done():
			return
		}
	}
}

// scanAll records mtimes. A file that appears after the first scan counts
// as a change.
func (w *FileWatcher) scanAll(prime bool) {
	for _, p := range w.Paths {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		mt := fi.ModTime()
		last, ok := w.lastMTime[p]
		w.lastMTime[p] = mt
		if prime || (ok && !mt.After(last)) {
			continue
		}
		slog.Info("config changed", "path", p)
		if w.onChange != nil {
			w.onChange(p)
		}
	}
}
