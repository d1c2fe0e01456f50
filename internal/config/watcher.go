package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/grovestore/grove/internal/bias"
)

// watchDebounce coalesces the event bursts editors produce when saving.
const watchDebounce = 250 * time.Millisecond

// WatchBiases watches a bias file and calls onReload with the freshly
// loaded specs after every change, debounced. Reload failures (partial
// writes, transient parse errors) are logged and skipped; the previous
// rule set stays in effect. WatchBiases blocks until ctx is done.
//
// The watch is placed on the file's directory, not the file itself, so
// rename-and-replace saves keep working.
func WatchBiases(ctx context.Context, path string, logger *slog.Logger, onReload func([]bias.Spec)) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	var timer *time.Timer
	var fire <-chan time.Time

	reload := func() {
		specs, err := LoadBiases(path)
		if err != nil {
			logger.Warn("bias reload failed, keeping previous rules",
				slog.String("path", path),
				slog.String("error", err.Error()))
			return
		}
		logger.Info("bias rules reloaded",
			slog.String("path", path),
			slog.Int("count", len(specs)))
		onReload(specs)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			reload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("bias watcher error", slog.String("error", err.Error()))
		}
	}
}
