package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/vaporwear/internal/logger"
)

// settleDelay is how long the file must be quiet before it is reloaded.
const settleDelay = 100 * time.Millisecond

// Watch reloads path whenever it changes and passes the new config to
// onChange. It blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file so that editors
// which save by renaming are still picked up. Events are collapsed until the
// file has been quiet for settleDelay, so one save yields one reload. Files
// that are empty, fail to parse or fail validation are logged and skipped.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	log := logger.Named("config")
	settle := time.NewTimer(settleDelay)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			settle.Reset(settleDelay)
		case <-settle.C:
			reload(log, abs, onChange)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("config watcher error", zap.Error(err))
		}
	}
}

func reload(log *zap.Logger, path string, onChange func(*Config)) {
	info, err := os.Stat(path)
	if err != nil {
		log.Warn("config reload failed", zap.String("path", path), zap.Error(err))
		return
	}
	// A truncated file would load as pure defaults.
	if info.Size() == 0 {
		log.Debug("config file empty, reload skipped", zap.String("path", path))
		return
	}

	cfg, err := LoadFile(path)
	if err != nil {
		log.Warn("config reload failed", zap.String("path", path), zap.Error(err))
		return
	}
	if err := cfg.Validate(); err != nil {
		log.Warn("reloaded config is invalid", zap.String("path", path), zap.Error(err))
		return
	}
	log.Info("config reloaded", zap.String("path", path))
	onChange(cfg)
}
