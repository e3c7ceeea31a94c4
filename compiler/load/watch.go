package load

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/adminkit/schema"
)

// ReloadFunc receives every reload of a watched schema file. Exactly one of
// s and err is non-nil.
type ReloadFunc func(s *schema.Schema, err error)

// Watch reloads the schema file at path whenever it changes and hands the
// result to fn. The directory is watched rather than the file itself, so
// editors that replace the file through a rename are picked up as well.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, fn ReloadFunc) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch schema: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch schema: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch schema: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			fn(File(abs))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fn(nil, fmt.Errorf("watch schema: %w", err))
		}
	}
}
