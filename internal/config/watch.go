package config

import (
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher records whether the document changed on disk since it was last
// asked. It is informational only; the console still reloads on every render.
type Watcher struct {
	fs      *fsnotify.Watcher
	target  string
	changed atomic.Bool
	done    chan struct{}
	logger  *zap.Logger
}

// Watch starts watching the store's file. The parent directory is watched
// rather than the file so editors that replace the file by rename are seen.
func (s *Store) Watch() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	abs, err := filepath.Abs(s.path)
	if err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to resolve %s: %w", s.path, err)
	}

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		fs:     fsw,
		target: abs,
		done:   make(chan struct{}),
		logger: s.logger,
	}
	go w.loop()
	return w, nil
}

// Changed reports whether a change was seen since the previous call.
func (w *Watcher) Changed() bool {
	return w.changed.Swap(false)
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			w.changed.Store(true)
			w.logger.Debug("configuration changed on disk", zap.String("event", event.Op.String()))

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("configuration watcher error", zap.Error(err))
		}
	}
}
