package commands

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/meowdoc/internal/config"
	"git.home.luguber.info/inful/meowdoc/internal/logfields"
)

// WatchCmd regenerates documentation whenever the input tree changes.
type WatchCmd struct {
	GenerateCmd

	Debounce time.Duration `default:"2s" help:"Quiet period after the last change before regenerating"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, &w.GenerateCmd)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initial pass before watching, so the site exists immediately.
	if _, err := runPipeline(ctx, cfg); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchTree(watcher, cfg.Main.InputPath); err != nil {
		return err
	}

	slog.Info("Watching for changes", logfields.Path(cfg.Main.InputPath))
	return w.watchLoop(ctx, watcher, cfg)
}

// watchLoop debounces bursts of filesystem events into single regeneration
// passes. A pipeline failure is logged and watching continues; only shutdown
// ends the loop.
func (w *WatchCmd) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, cfg *config.Config) error {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			slog.Info("Shutdown signal received, stopping watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Change detected", logfields.Path(event.Name))

			// New directories need to be watched too.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addWatchTree(watcher, event.Name)
				}
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.Debounce)
			timerC = timer.C

		case <-timerC:
			timerC = nil
			slog.Info("Input changed, regenerating")
			if _, err := runPipeline(ctx, cfg); err != nil {
				slog.Error("Regeneration failed", logfields.Error(err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Watcher error", logfields.Error(err))
		}
	}
}

// addWatchTree registers root and every directory under it. fsnotify watches
// are not recursive.
func addWatchTree(watcher *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to stat watch root: %w", err)
	}
	if !info.IsDir() {
		return watcher.Add(root)
	}
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if addErr := watcher.Add(p); addErr != nil {
				slog.Warn("Failed to watch directory", logfields.Path(p), logfields.Error(addErr))
			}
		}
		return nil
	})
}
