package cmd

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
	"go.uber.org/zap"

	"github.com/gnolang/tquery/internal/query"
)

// settle is how long to wait after a change so that a burst of writes
// triggers a single run.
const settle = 100 * time.Millisecond

// watchCmd: tquery watch <corpus.json> <predicate>...
var watchCmd = &cobra.Command{
	Use:   "watch <corpus.json> <predicate>...",
	Short: "Re-run a query every time the corpus file changes",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return watchQuery(ctx, logger, opts, args[0], args[1:], cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func watchQuery(ctx context.Context, logger *zap.Logger, opts runOptions, corpusPath string, predicates []string, stdout, stderr io.Writer) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	// bad predicates fail now rather than on every change
	if _, err := query.NewCompiler(opts.Registry, opts.Query).Compile(predicates); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// editors often replace the file, so watch its directory
	if err := watcher.Add(filepath.Dir(corpusPath)); err != nil {
		return fmt.Errorf("error adding directory to watcher: %w", err)
	}

	run := func() {
		if err := runQuery(logger, opts, corpusPath, predicates, stdout, stderr); err != nil {
			logger.Error("query failed", zap.String("corpus", corpusPath), zap.Error(err))
		}
	}
	run()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !triggersRun(event, corpusPath) {
				continue
			}
			logger.Debug("corpus changed", zap.String("event", event.String()))
			time.Sleep(settle)
			drain(watcher.Events)
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}

// triggersRun reports whether event is a write to (or re-creation of) the
// corpus file.
func triggersRun(event fsnotify.Event, corpusPath string) bool {
	if filepath.Base(event.Name) != filepath.Base(corpusPath) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func drain(events <-chan fsnotify.Event) {
	for {
		select {
		case <-events:
		default:
			return
		}
	}
}
