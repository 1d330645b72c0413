package sites

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads path on every write and hands the new list to onChange. A
// file that fails to parse is logged and the previous list stays active.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, log *zap.Logger, onChange func([]Site)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}
	log.Info("sites_watch_started", zap.String("path", path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors that save atomically show up as Create after a rename.
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			list, err := Load(path)
			if err != nil {
				log.Error("sites_reload_failed", zap.String("path", path), zap.Error(err))
				continue
			}
			log.Info("sites_reloaded", zap.String("path", path), zap.Int("sites", len(list)))
			onChange(list)
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("sites_watch_error", zap.Error(err))
		}
	}
}
