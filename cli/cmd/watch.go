package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vippsas/ddlfmt"
	"github.com/vippsas/ddlfmt/sqlparser"
)

var (
	watchCmd = &cobra.Command{
		Use:   "watch [dir]",
		Short: "Watch a directory tree and reformat DDL files as they change",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				_ = cmd.Help()
				return errors.New("too many arguments")
			}
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			config, err := LoadConfig()
			if err != nil {
				return err
			}
			fcfg := formatConfig(config)
			logger := logrus.StandardLogger()

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return errors.Wrap(err, "failed to create watcher")
			}
			defer func() { _ = watcher.Close() }()

			if err := watchTree(watcher, dir); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigChan
				cancel()
			}()

			logger.WithField("dir", dir).Info("watching for DDL changes, press Ctrl+C to stop")
			watchLoop(ctx, watcher, fcfg, logger)
			return nil
		},
	}
)

// watchTree adds every non-hidden directory under dir to the watcher.
// fsnotify watches are not recursive by themselves.
func watchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if name := info.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, fcfg ddlfmt.Config, logger *logrus.Logger) {
	// Editors fire several events per save, so changed paths are collected
	// and flushed once the burst has settled.
	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}
	pending := map[string]struct{}{}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if event.Op&fsnotify.Create != 0 && !strings.HasPrefix(info.Name(), ".") {
					_ = watcher.Add(event.Name)
				}
				continue
			}
			if filepath.Ext(event.Name) != ".sql" {
				continue
			}
			pending[event.Name] = struct{}{}
			debounce.Reset(100 * time.Millisecond)

		case <-debounce.C:
			for path := range pending {
				reformatInPlace(path, fcfg, logger)
			}
			pending = map[string]struct{}{}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.WithError(err).Warn("watcher error")
		}
	}
}

func reformatInPlace(path string, fcfg ddlfmt.Config, logger *logrus.Logger) {
	content, err := os.ReadFile(path)
	if err != nil {
		logger.WithError(err).WithField("file", path).Warn("could not read")
		return
	}
	if !ddlfmt.IsDDL(content) {
		return
	}
	formatted, err := ddlfmt.FormatFile(sqlparser.FileRef(path), string(content), fcfg)
	if err != nil {
		logger.WithError(err).WithField("file", path).Warn("not reformatted")
		return
	}
	if formatted == string(content) {
		// Also what we see when our own write comes back as an event.
		return
	}
	if err := os.WriteFile(path, []byte(formatted), 0644); err != nil {
		logger.WithError(err).WithField("file", path).Warn("could not write")
		return
	}
	logger.WithField("file", path).Info("reformatted")
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
