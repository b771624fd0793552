package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	minTimeBetweenReloadAttempts = 500 * time.Millisecond
	delayBetweenEventAndReload   = 50 * time.Millisecond
)

// Watcher reloads a config file when it changes on disk.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *zap.SugaredLogger
}

// NewWatcher starts watching the directory holding path. The directory is
// watched rather than the file so editors that replace the file by rename are
// followed.
func NewWatcher(path string, logger *zap.SugaredLogger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:    abs,
		watcher: fw,
		logger:  logger.Named("config"),
	}, nil
}

// Run calls onReload with every successfully reloaded config until ctx is
// cancelled. Reload failures are logged and the previous config stays in use.
func (w *Watcher) Run(ctx context.Context, onReload func(*Config)) error {
	defer w.watcher.Close()

	w.logger.Debugw("Starting to watch config file for changes", "path", w.path)

	var lastAttemptedReload time.Time
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("Stopping config file watcher")
			return nil

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnw("Config watcher error", "error", err)

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			now := time.Now()
			if !lastAttemptedReload.Add(minTimeBetweenReloadAttempts).Before(now) {
				continue
			}
			lastAttemptedReload = now

			w.logger.Debugw("Config file modified, attempting reload", "event", event)
			select {
			case <-time.After(delayBetweenEventAndReload):
			case <-ctx.Done():
				return nil
			}

			cfg, err := Load(w.path)
			if err != nil {
				w.logger.Warnw("Failed to reload config file", "error", err)
				continue
			}
			w.logger.Info("Reloaded config successfully")
			onReload(cfg)
		}
	}
}

// Close stops the watcher without waiting for Run.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
