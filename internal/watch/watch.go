// Package watch reapplies a profile file whenever it changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce coalesces the burst of events editors emit per save.
const DefaultDebounce = 100 * time.Millisecond

// Reloader watches one file and calls a reload function after it was
// written, created or renamed into place.
type Reloader struct {
	watcher  *fsnotify.Watcher
	path     string
	reload   func() error
	debounce time.Duration
	log      zerolog.Logger
}

// New watches path. The parent directory is watched so that editors that
// replace the file by rename are handled.
func New(path string, reload func() error, log zerolog.Logger) (*Reloader, error) {
	if reload == nil {
		return nil, errors.New("watch requires a reload function")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Reloader{
		watcher:  w,
		path:     abs,
		reload:   reload,
		debounce: DefaultDebounce,
		log:      log.With().Str("file", abs).Logger(),
	}, nil
}

// SetDebounce changes the quiet period before a reload. Call before Run.
func (r *Reloader) SetDebounce(d time.Duration) {
	r.debounce = d
}

// Run dispatches events until ctx is cancelled, then closes the watcher.
func (r *Reloader) Run(ctx context.Context) error {
	defer r.watcher.Close()

	timer := time.NewTimer(r.debounce)
	timer.Stop()

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}

			if !r.relevant(ev) {
				continue
			}

			timer.Reset(r.debounce)
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}

			r.log.Warn().Err(err).Msg("watcher error")
		case <-timer.C:
			if err := r.reload(); err != nil {
				r.log.Error().Err(err).Msg("reload failed")
				continue
			}

			r.log.Info().Msg("reloaded")
		}
	}
}

func (r *Reloader) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != r.path {
		return false
	}

	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
