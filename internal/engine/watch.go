package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits after the last change.
const DefaultDebounce = 100 * time.Millisecond

// Watch runs once, then again whenever an input file changes, until ctx is
// done. Each run is reported to onResult; a failed run does not stop
// watching.
func (e *Engine) Watch(ctx context.Context, debounce time.Duration, onResult func(*Result, error)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	watched, err := e.inputs()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace files, so the parent directories are watched.
	dirs := make(map[string]bool)
	for path := range watched {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	onResult(e.Run(ctx))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			e.logger.Debug("change detected", slog.String("path", abs))
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			onResult(e.Run(ctx))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}

// inputs returns the absolute paths of every configured input file.
func (e *Engine) inputs() (map[string]bool, error) {
	out := make(map[string]bool)
	for _, p := range []string{e.cfg.APIPath, e.cfg.UIPath, e.cfg.EnumValuesPath} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		out[abs] = true
	}
	return out, nil
}
