// Package watch reruns a callback when any of a set of files changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses editor save bursts into one run.
const DefaultDebounce = 300 * time.Millisecond

// Watcher calls OnChange after the watched files settle.
type Watcher struct {
	files    map[string]bool
	debounce time.Duration
	onChange func(path string)
}

// New watches files. Their parent directories are watched so editors that
// replace files on save are still seen.
func New(files []string, debounce time.Duration, onChange func(path string)) (*Watcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{files: make(map[string]bool), debounce: debounce, onChange: onChange}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, err
		}
		w.files[abs] = true
	}
	return w, nil
}

// Run blocks until ctx is cancelled or the watcher fails. Callbacks run one at
// a time, and Run returns only after a running callback has finished.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fw.Close()

	dirs := make(map[string]bool)
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	var (
		mu      sync.Mutex
		timer   *time.Timer
		pending string
	)

	// A single worker runs the callbacks so a slow one never overlaps the
	// next. Fired timers only signal it.
	trigger := make(chan struct{}, 1)
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			case <-trigger:
				mu.Lock()
				path := pending
				mu.Unlock()
				w.onChange(path)
			}
		}
	}()

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		close(stop)
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.files[abs] {
				continue
			}
			slog.Debug("watched file changed", "path", abs, "op", event.Op.String())

			mu.Lock()
			pending = abs
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})
			mu.Unlock()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}
