package modelcfg

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the table whenever its backing file changes, until the
// context is cancelled. Uses fsnotify for efficient file watching with a
// polling fallback. Watch blocks; run it in its own goroutine.
func (t *Table) Watch(ctx context.Context) error {
	if t.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.watchPolling(ctx)
		return nil
	}
	defer watcher.Close()

	// Watch the directory; editors replace files rather than writing in place.
	dir := filepath.Dir(t.path)
	if err := watcher.Add(dir); err != nil {
		t.watchPolling(ctx)
		return nil
	}

	baseName := filepath.Base(t.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != baseName {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := t.Reload(); err != nil {
				slog.Warn("model config reload failed",
					slog.String("path", t.path),
					slog.Any("error", err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Usually recoverable; keep watching.
			slog.Debug("model config watcher error", slog.Any("error", err))
		}
	}
}

// watchPolling falls back to mtime polling when fsnotify isn't available.
func (t *Table) watchPolling(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var lastMod time.Time
	if info, err := os.Stat(t.path); err == nil {
		lastMod = info.ModTime()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			info, err := os.Stat(t.path)
			if err != nil {
				continue
			}
			if info.ModTime().After(lastMod) {
				lastMod = info.ModTime()
				if err := t.Reload(); err != nil {
					slog.Warn("model config reload failed",
						slog.String("path", t.path),
						slog.Any("error", err))
				}
			}
		}
	}
}
