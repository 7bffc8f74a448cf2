package compiler

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces editor save bursts into a single rebuild.
const debounceDelay = 250 * time.Millisecond

// Watch runs once, then keeps regenerating whenever a watched schema
// description changes, until the context is canceled. The generation
// target itself is never watched, so writes of the output do not
// retrigger.
func (r *Runner) Watch(ctx context.Context) error {
	if err := r.Run(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := make(map[string]struct{}, len(r.paths))
	dirs := make(map[string]struct{})
	for _, path := range r.paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	// Watch parent directories instead of the files: editors that replace
	// files on save would otherwise drop the watch after the first change.
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}
	slog.Info("watching schema descriptions", "files", len(watched), "dirs", len(dirs))

	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Op.Has(fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if _, ok := watched[abs]; !ok {
				continue
			}
			slog.Debug("schema description changed", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
			} else {
				timer.Reset(debounceDelay)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			if err := r.Run(ctx); err != nil {
				// Watch mode keeps running through bad intermediate states;
				// the next save gets another chance.
				slog.Error("regeneration failed", "err", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "err", err)
		}
	}
}
