// Package watch reports debounced file changes in a directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a directory must be quiet before a change is reported.
const DefaultDebounce = 500 * time.Millisecond

// ChangeFunc handles a batch of changed paths.
type ChangeFunc func(ctx context.Context, paths []string) error

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	// Match filters the paths that count as changes. Nil matches everything.
	Match func(path string) bool
}

// Watcher watches one directory (not recursively).
type Watcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	match    func(string) bool
	logger   *zap.SugaredLogger
}

// New starts watching dir.
func New(dir string, opts Options, logger *zap.SugaredLogger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Watcher{
		dir:      dir,
		watcher:  fw,
		debounce: opts.Debounce,
		match:    opts.Match,
		logger:   logger,
	}, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run calls onChange with the sorted set of changed paths each time the
// directory has been quiet for the debounce period. onChange runs on the
// calling goroutine, so calls never overlap; its errors are logged. Run
// returns nil when ctx is done.
func (w *Watcher) Run(ctx context.Context, onChange ChangeFunc) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debugw("file changed", "path", event.Name, "op", event.Op.String())
			pending[event.Name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			w.logger.Warnw("watcher error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)

			w.logger.Infow("changes detected", "files", len(paths))
			if err := onChange(ctx, paths); err != nil {
				w.logger.Errorw("change handler failed", "error", err)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	return w.match == nil || w.match(event.Name)
}
