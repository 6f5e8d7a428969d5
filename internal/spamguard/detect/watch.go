package detect

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Reload loads the rules file and swaps it into d. On error d keeps its
// current rules.
func (d *Detector) Reload(path string) error {
	cfg, err := LoadRules(path)
	if err != nil {
		return err
	}
	rules, err := cfg.Build()
	if err != nil {
		return err
	}
	d.SetRules(rules)
	return nil
}

// Watch reloads the rules file into d whenever it changes, until ctx is
// done. The parent directory is watched so editors that replace the file on
// save are picked up.
func Watch(ctx context.Context, path string, d *Detector, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("detect: create watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		_ = w.Close()
		return fmt.Errorf("detect: resolve %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return fmt.Errorf("detect: watch %s: %w", filepath.Dir(abs), err)
	}

	logger = logger.With(slog.String("rules_file", abs))

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if err := d.Reload(abs); err != nil {
					logger.Error("detector rules reload failed, keeping previous rules", slog.Any("error", err))
					continue
				}
				logger.Info("detector rules reloaded")

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("detector rules watcher error", slog.Any("error", err))
			}
		}
	}()

	return nil
}
