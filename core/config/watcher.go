package config

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces editor write bursts into one reload.
const reloadDebounce = 200 * time.Millisecond

// Watcher reloads the manager when the config file changes on disk.
type Watcher struct {
	manager  *Manager
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	stopOnce sync.Once
	done     chan struct{}
}

// NewWatcher starts watching the manager's config file. The parent
// directory is watched rather than the file itself so atomic
// rename-over-save (the common editor behavior) keeps working.
func NewWatcher(manager *Manager, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(manager.path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		manager: manager,
		watcher: fsw,
		logger:  logger,
		done:    make(chan struct{}),
	}
	go w.run(filepath.Base(manager.path))
	return w, nil
}

func (w *Watcher) run(filename string) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	if err := w.manager.Reload(); err != nil {
		w.logger.Error("config reload failed, keeping previous snapshot", "error", err)
		return
	}
	w.logger.Info("configuration reloaded", "path", w.manager.path)
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}
