package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events an editor save produces.
const reloadDelay = 100 * time.Millisecond

// Watch calls onChange with the reloaded config each time the file at path
// is written, created or replaced. It watches the parent directory so the
// file may not exist yet. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(Config, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch config dir: %w", err)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				pending = time.After(reloadDelay)
			}
		case <-pending:
			pending = nil
			onChange(LoadFile(abs))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onChange(Config{}, fmt.Errorf("watch config: %w", err))
		}
	}
}
