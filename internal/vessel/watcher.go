package vessel

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/yhseo-kgs/chatbot-proxy/internal/observability"
)

// Watcher reloads a Registry whenever its backing file changes.
type Watcher struct {
	registry *Registry
	watcher  *fsnotify.Watcher
	logger   *observability.Logger
	reloaded chan struct{}
}

// NewWatcher creates a watcher for registry's file.
func NewWatcher(registry *Registry, logger *observability.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Watcher{
		registry: registry,
		watcher:  w,
		logger:   logger.WithComponent("vessel_watcher"),
		reloaded: make(chan struct{}, 1),
	}, nil
}

// Reloaded signals after each successful reload. Signals are coalesced.
func (w *Watcher) Reloaded() <-chan struct{} { return w.reloaded }

// Run watches until ctx is done. The parent directory is watched so that
// editors replacing the file by rename are picked up.
func (w *Watcher) Run(ctx context.Context) error {
	target := filepath.Clean(w.registry.Path())
	if err := w.watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("file watch error")
		}
	}
}

func (w *Watcher) reload() {
	if err := w.registry.Reload(); err != nil {
		w.logger.Warn().Err(err).Str("path", w.registry.Path()).Msg("vessel reload failed, keeping previous data")
		return
	}
	w.logger.Info().Int("vessels", w.registry.Len()).Msg("vessel data reloaded")
	select {
	case w.reloaded <- struct{}{}:
	default:
	}
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
