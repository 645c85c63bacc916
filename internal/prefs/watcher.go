package prefs

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	. "github.com/roelfdiedericks/devkit/internal/logging"
	"github.com/roelfdiedericks/devkit/internal/paths"
)

// Watch reloads the theme whenever the preferences file is rewritten by
// another process (e.g. `devkit theme toggle` while the server runs).
// It blocks until ctx is cancelled.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return errors.New("prefs: memory-only store cannot be watched")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: the file is replaced by rename on every save
	dir := filepath.Dir(s.path)
	if err := paths.EnsureDir(dir); err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		return err
	}
	L_debug("prefs: watching", "dir", dir)

	target := filepath.Base(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				s.reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			L_warn("prefs: watcher error", "error", err)
		}
	}
}
