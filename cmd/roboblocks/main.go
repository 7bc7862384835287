// Command roboblocks generates Arduino sketches from block workspaces.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"roboblocks-go/services/codegen/config"
)

// cli carries the persistent flags and the logger shared by subcommands.
type cli struct {
	verbose  bool
	settings string
	board    string

	log *zap.Logger
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "roboblocks",
		Short: "Generate Arduino sketches from robotic-module block workspaces",
		Long: `roboblocks turns a block workspace (YAML or JSON) into an Arduino sketch.

Workspaces list the blocks placed in setup() and loop(). Sensor, motor,
Bluetooth, 8x8 display and WiFi blocks emit their includes, setup code
and helper functions once per sketch; pins are checked against the
selected board.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.log != nil {
				return nil
			}
			cfg := zap.NewProductionConfig()
			if c.verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.log = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&c.settings, "settings", config.FileName, "settings file")
	pf.StringVar(&c.board, "board", "", "board profile key or compiler board name (overrides the workspace)")

	root.AddCommand(
		newGenerateCmd(c),
		newWatchCmd(c),
		newBlocksCmd(c),
		newBoardsCmd(c),
		newSettingsCmd(c),
	)
	return root
}

func (c *cli) openSettings() (*config.Settings, error) {
	return config.Open(c.settings, config.WithLogger(c.log))
}

func main() {
	if err := newRootCmd(&cli{}).Execute(); err != nil {
		os.Exit(1)
	}
}
