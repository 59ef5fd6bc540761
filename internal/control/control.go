// Package control handles out-of-band stop signals via the .ponder directory.
// A long tree search can burn many API calls; dropping a "stop" file into
// .ponder/signals cancels the run cleanly from another terminal.
package control

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the signals directory and cancels a context when a stop
// signal arrives.
type Watcher struct {
	ponderDir string

	mu         sync.RWMutex
	stopSignal bool

	watcher *fsnotify.Watcher
	done    chan struct{}
	once    sync.Once
}

// NewWatcher creates a signal watcher rooted at the given directory. The
// .ponder/signals directory is created if missing. A failed fsnotify setup is
// not fatal: ShouldStop falls back to polling the signal file directly.
func NewWatcher(rootPath string) (*Watcher, error) {
	ponderDir := filepath.Join(rootPath, ".ponder")

	signalsDir := filepath.Join(ponderDir, "signals")
	if err := os.MkdirAll(signalsDir, 0755); err != nil {
		return nil, err
	}

	w := &Watcher{
		ponderDir: ponderDir,
		done:      make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		// Continue without watcher - will use polling fallback
		return w, nil
	}
	w.watcher = watcher

	if err := watcher.Add(signalsDir); err != nil {
		watcher.Close()
		w.watcher = nil
		return w, nil
	}

	go w.watchSignals()

	return w, nil
}

// watchSignals monitors the signals directory for the stop file.
func (w *Watcher) watchSignals() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			base := filepath.Base(event.Name)
			if base == "stop" && (event.Op&fsnotify.Create != 0 || event.Op&fsnotify.Write != 0) {
				w.mu.Lock()
				w.stopSignal = true
				w.mu.Unlock()
			}
		case <-w.watcher.Errors:
			// Ignore errors, keep watching
		}
	}
}

// ShouldStop returns true if a stop signal has been received.
func (w *Watcher) ShouldStop() bool {
	// Also check the file directly in case the watcher missed it
	stopPath := filepath.Join(w.ponderDir, "signals", "stop")
	if _, err := os.Stat(stopPath); err == nil {
		w.mu.Lock()
		w.stopSignal = true
		w.mu.Unlock()
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stopSignal
}

// SendStop creates a stop signal file.
func (w *Watcher) SendStop() error {
	path := filepath.Join(w.ponderDir, "signals", "stop")
	return os.WriteFile(path, []byte(time.Now().Format(time.RFC3339)), 0644)
}

// ClearSignals removes the signal file and resets signal state.
func (w *Watcher) ClearSignals() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopSignal = false
	os.Remove(filepath.Join(w.ponderDir, "signals", "stop"))
}

// Context derives a context that is canceled when a stop signal arrives or
// the watcher is closed. The parent's cancellation propagates as usual.
func (w *Watcher) Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.done:
				cancel()
				return
			case <-ticker.C:
				if w.ShouldStop() {
					cancel()
					return
				}
			}
		}
	}()

	return ctx, cancel
}

// PonderDir returns the path to the .ponder directory.
func (w *Watcher) PonderDir() string {
	return w.ponderDir
}

// Close shuts down the watcher. Safe to call more than once.
func (w *Watcher) Close() {
	w.once.Do(func() {
		close(w.done)
		if w.watcher != nil {
			w.watcher.Close()
		}
	})
}
