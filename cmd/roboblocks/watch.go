package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"roboblocks-go/bus"
	"roboblocks-go/services/codegen"
	"roboblocks-go/services/diagnostics"
)

const defaultDebounce = 200 * time.Millisecond

func newWatchCmd(c *cli) *cobra.Command {
	var (
		o        generateOpts
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch <workspace>",
		Short: "Regenerate the sketch whenever the workspace changes",
		Long: `Generates the sketch once, then again after every change to the workspace
file. Rapid saves are coalesced. Each pass and its pin conflicts are
reported on stderr. Stops on SIGINT or SIGTERM.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := bus.NewBus(16)
			g, err := c.newGenerator(o, codegen.WithBus(b))
			if err != nil {
				return err
			}
			defer g.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			diag := diagnostics.New(cmd.ErrOrStderr(), c.log)
			defer diag.Wait()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			diag.Start(ctx, b.NewConnection("watch"))

			w := &watcher{
				path:     args[0],
				debounce: debounce,
				log:      c.log,
				run: func(ctx context.Context) error {
					_, err := g.run(ctx, args[0])
					return err
				},
			}
			return w.Run(ctx)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.out, "out", "o", "", "sketch directory (default: from settings)")
	f.StringVarP(&o.name, "name", "n", "", "sketch name (default: from settings)")
	f.BoolVar(&o.strictPins, "strict-pins", false, "fail passes with pin conflicts")
	f.DurationVar(&debounce, "debounce", defaultDebounce, "quiet period before regenerating")
	return cmd
}

// watcher runs one pass per burst of changes to a single file. Passes run
// on the watcher goroutine, one after another.
type watcher struct {
	path     string
	debounce time.Duration
	log      *zap.Logger
	run      func(context.Context) error
}

// Run blocks until ctx is done. Pass failures are logged and watching
// continues; only a failure to set up the watch is returned.
func (w *watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	// Editors often replace the file, so the directory is watched.
	dir, base := filepath.Split(filepath.Clean(w.path))
	if dir == "" {
		dir = "."
	}
	if err := fw.Add(dir); err != nil {
		return err
	}
	w.log.Info("watching workspace", zap.String("path", w.path))

	w.pass(ctx)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watch stopped")
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			w.log.Debug("workspace changed", zap.String("op", ev.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			w.pass(ctx)
		}
	}
}

func (w *watcher) pass(ctx context.Context) {
	if err := w.run(ctx); err != nil {
		w.log.Warn("regeneration failed", zap.String("path", w.path), zap.Error(err))
	}
}
