package render

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config at path whenever the file is written and calls
// onChange with the result. A reload that fails to parse or validate is
// logged and the previous config stays active. Watch runs until ctx is done.
func Watch(ctx context.Context, path string, logger *slog.Logger, onChange func(cfg *Config, err error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory so atomic saves that replace the file are seen.
	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	logger.Info("watching render config", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			// Editors often save by rename, which surfaces as Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				logger.Error("render config reload failed, keeping previous config", "path", path, "error", err)
				onChange(nil, err)
				continue
			}

			logger.Info("render config reloaded", "path", path)
			onChange(cfg, nil)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("render config watcher error", "error", err)
		}
	}
}
