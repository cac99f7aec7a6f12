package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/chazu/armature/pkg/config"
	"github.com/chazu/armature/pkg/ctxlog"
)

const watchDebounce = 100 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Rebuild a robot description every time it changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cfg, err := session(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		return runWatch(ctx, cfg, args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// runWatch builds path once and then again after every write, until ctx is
// done. Build failures are logged and do not stop the watch.
func runWatch(ctx context.Context, cfg config.Config, path string, w io.Writer) error {
	logger := ctxlog.FromContext(ctx)

	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer fw.Close()

	// Editors often replace the file instead of writing it, so watch the
	// directory and filter by name.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch: %s: %w", path, err)
	}

	rebuild := func() {
		if err := runBuild(ctx, cfg, path, w); err != nil {
			logger.Error("build failed", "file", path, "err", err)
		}
	}
	rebuild()

	ticker := time.NewTicker(watchDebounce)
	defer ticker.Stop()
	var pending time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= watchDebounce {
				pending = time.Time{}
				logger.Debug("rebuilding", "file", path)
				rebuild()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}
