package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce collapses the burst of events editors emit for a single save.
const debounce = 100 * time.Millisecond

// Watch calls fn once, then again every time path changes, until ctx is
// cancelled. Errors from fn are printed and do not stop the watch.
// The parent directory is watched so editors that replace the file on save
// are followed.
func Watch(ctx context.Context, out io.Writer, path string, fn func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	run := func() {
		if err := fn(ctx); err != nil && !isInterrupted(err) {
			PrintSystemMessage(out, "Error: %s", FormatError(err))
		}
	}

	PrintSystemMessage(out, "Watching %s (Ctrl+C to stop)", path)
	run()

	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				timer = time.After(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			PrintSystemMessage(out, "Watch error: %v", err)
		case <-timer:
			timer = nil
			PrintSystemMessage(out, "%s changed, rebuilding", path)
			run()
		}
	}
}
