package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces the event bursts editors and atomic-rename
// writers produce for a single save.
const debounceWindow = 200 * time.Millisecond

// Watcher reloads the config file on change and hands the result to a
// callback. Only the callback's scope is hot-reloadable; everything
// else keeps its boot-time value.
type Watcher struct {
	path     string
	onReload func(*Config)
	logger   *slog.Logger
}

// NewWatcher creates a watcher for path. onReload runs on each
// successful reload.
func NewWatcher(path string, onReload func(*Config), logger *slog.Logger) *Watcher {
	return &Watcher{
		path:     path,
		onReload: onReload,
		logger:   logger,
	}
}

// Run watches until ctx is canceled. Reload failures keep the current
// configuration and log the error.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	// Watch the directory: editors replace the file by rename, which
	// drops a watch set on the file itself.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	w.logger.Info("watching config file", "path", w.path)

	var pending *time.Timer
	var pendingC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if pending == nil {
				pending = time.NewTimer(debounceWindow)
				pendingC = pending.C
			} else {
				pending.Reset(debounceWindow)
			}

		case <-pendingC:
			pending = nil
			pendingC = nil
			w.reload()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Error("config reload failed, keeping current configuration",
			"path", w.path,
			"error", err,
		)
		return
	}

	w.logger.Info("config reloaded",
		"path", w.path,
		"channel_ids", cfg.Slack.ChannelIDs,
	)
	w.onReload(cfg)
}
