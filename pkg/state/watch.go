package state

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors the file backend's state directory and calls onChange with
// the slot file name ("sample.json" or "params.json") each time a slot is
// republished. It runs until ctx is cancelled.
//
// Freshness is still polling-based at heart — the watcher is an optimization
// so the console can refresh within one write instead of a full generation
// interval. Callers must not rely on receiving every event.
func Watch(ctx context.Context, dir string, onChange func(slot string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the slot files: each publish is a rename that
	// replaces the slot's inode, so a per-file watch would go stale.
	if err := watcher.Add(dir); err != nil {
		return err
	}

	slog.Info("state: watching for changes", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// A publish surfaces as the rename's Create (or a Write on
			// filesystems without rename events).
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			name := filepath.Base(event.Name)
			if name != SampleSlot && name != ParamsSlot {
				continue
			}
			onChange(name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("state: watcher error", "err", err)
		}
	}
}
