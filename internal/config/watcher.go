package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/danielpatrickdp/biorail-gate/internal/corridor"
)

// #region watcher
// Watcher keeps the latest valid configuration loaded from a file.
// An invalid edit is logged and ignored; the previous configuration stays active.
type Watcher struct {
	path    string
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	current atomic.Pointer[loaded]
	reloads atomic.Int64

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// loaded pairs a config with its prebuilt baseline corridor.
type loaded struct {
	cfg      Config
	corridor corridor.Corridor
}

// NewWatcher loads path once and prepares to watch it. The initial load must succeed.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Watcher{
		path:   filepath.Clean(path),
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	if err := w.reload(); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("new config watcher: %w", err)
	}
	// Watch the directory: editors replace files by rename.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.watcher = fw
	return w, nil
}

// Start begins watching in a goroutine. It is a no-op when already running.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	go w.run(ctx)
}

// Stop ends the watch loop and releases the fsnotify watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}
	return w.watcher.Close()
}

// Current returns the active configuration.
func (w *Watcher) Current() Config {
	return w.current.Load().cfg
}

// BaselineCorridor returns the active baseline corridor.
func (w *Watcher) BaselineCorridor() corridor.Corridor {
	return w.current.Load().corridor
}

// Reloads returns how many times a changed file was applied.
func (w *Watcher) Reloads() int64 {
	return w.reloads.Load()
}

// #endregion watcher

// #region run
func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", "path", w.path, "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return // remove, rename and chmod keep the last good config
	}

	if err := w.reload(); err != nil {
		w.logger.Warn("config reload rejected, keeping previous", "path", w.path, "error", err)
		return
	}
	w.reloads.Add(1)
	cfg := w.Current()
	w.logger.Info("config reloaded",
		"path", w.path,
		"zone", cfg.Corridor.Zone,
		"corridor_min", cfg.Corridor.Min,
		"corridor_max", cfg.Corridor.Max,
	)
}

// reload parses the file and swaps it in. Empty reads are mid-write truncations.
func (w *Watcher) reload() error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("load config %s: empty file", w.path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return fmt.Errorf("load config %s: %w", w.path, err)
	}
	c, err := cfg.BaselineCorridor()
	if err != nil {
		return fmt.Errorf("load config %s: %w", w.path, err)
	}
	w.current.Store(&loaded{cfg: cfg, corridor: c})
	return nil
}

// #endregion run
