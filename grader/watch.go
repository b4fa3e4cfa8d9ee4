package grader

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// settleDelay groups the several events an editor produces for one save.
const settleDelay = 100 * time.Millisecond

// Watch calls onChange with the path of a watched file each time it is
// written or replaced, until ctx is done. Directories are watched rather than
// the files themselves so that editors that save by renaming are seen too.
func Watch(ctx context.Context, logger *zap.Logger, paths []string, onChange func(path string)) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("error resolving %s: %w", p, err)
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(settleDelay)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !watched[name] {
				continue
			}
			logger.Debug("File changed", zap.String("file", name), zap.String("op", event.Op.String()))
			pending[name] = true
			timer.Reset(settleDelay)

		case <-timer.C:
			for name := range pending {
				onChange(name)
			}
			clear(pending)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error", zap.Error(err))
		}
	}
}
