package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a directory and runs the full pipeline on every new
// media file that appears in it. Files are processed one at a time, in
// arrival order.
type Watcher struct {
	app *App
	ui  UIManager
}

// NewWatcher creates a directory watcher around an App.
func NewWatcher(app *App) *Watcher {
	return &Watcher{app: app, ui: app.ui}
}

// Watch blocks, processing new files in dir until the context is cancelled.
func (w *Watcher) Watch(ctx context.Context, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: closing watcher: %v\n", err)
		}
	}()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	w.ui.Printf("Watching %s (formats: %s)\n", dir, strings.Join(AllowedExtensions, ", "))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !IsAllowedExtension(strings.ToLower(filepath.Ext(event.Name))) {
				w.ui.Verbose("Ignoring %s\n", event.Name)
				continue
			}

			w.ui.Printf("New media file: %s\n", event.Name)
			w.awaitSettled(ctx, event.Name)

			if err := w.app.Process(ctx, event.Name); err != nil {
				fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", event.Name, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		}
	}
}

// awaitSettled waits until the file size stops changing, so a copy still in
// progress is not cut mid-write.
func (w *Watcher) awaitSettled(ctx context.Context, path string) {
	var lastSize int64 = -1
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(500 * time.Millisecond):
		}

		info, err := os.Stat(path)
		if err != nil {
			return
		}
		if info.Size() == lastSize {
			return
		}
		lastSize = info.Size()
	}
}
