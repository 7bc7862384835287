package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"roboblocks-go/services/codegen"
	"roboblocks-go/services/codegen/config"
)

type generateOpts struct {
	out        string
	name       string
	strictPins bool
	stdout     bool
}

func newGenerateCmd(c *cli) *cobra.Command {
	var o generateOpts
	cmd := &cobra.Command{
		Use:   "generate <workspace>",
		Short: "Generate a sketch from a workspace file",
		Long: `Runs one generation pass over the workspace and writes
<dir>/<name>/<name>.ino, where dir defaults to the sketch directory from the
settings file. Pin conflicts are reported as warnings unless --strict-pins
is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, args[0], o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.out, "out", "o", "", "sketch directory (default: from settings)")
	f.StringVarP(&o.name, "name", "n", "", "sketch name (default: from settings)")
	f.BoolVar(&o.strictPins, "strict-pins", false, "fail when two blocks need a pin for different purposes")
	f.BoolVar(&o.stdout, "stdout", false, "print the sketch instead of writing it")
	return cmd
}

func (c *cli) runGenerate(cmd *cobra.Command, wsPath string, o generateOpts) error {
	g, err := c.newGenerator(o)
	if err != nil {
		return err
	}
	defer g.close()

	path, err := g.run(cmd.Context(), wsPath)
	if err != nil {
		return err
	}
	if o.stdout {
		fmt.Fprint(cmd.OutOrStdout(), g.last.Code)
		return nil
	}
	for _, conflict := range g.last.Conflicts {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", conflict.Message())
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// generator binds a codegen service to an output location. It is shared by
// generate and watch.
type generator struct {
	log    *zap.Logger
	svc    *codegen.Service
	board  string
	dir    string
	name   string
	stdout bool

	last *codegen.Result
}

func (c *cli) newGenerator(o generateOpts, extra ...codegen.Option) (*generator, error) {
	settings, err := c.openSettings()
	if err != nil {
		return nil, err
	}
	g := &generator{
		log:    c.log,
		board:  c.board,
		dir:    o.out,
		name:   o.name,
		stdout: o.stdout,
	}
	if g.dir == "" {
		g.dir = settings.SketchDir()
	}
	if g.name == "" {
		g.name = settings.SketchName()
	}
	if g.name == "" {
		g.name = config.DefaultSketchName
	}
	opts := append([]codegen.Option{
		codegen.WithLogger(c.log),
		codegen.WithBoard(settings.Board()),
		codegen.WithStrictPins(o.strictPins),
		codegen.WithSketchName(g.name),
	}, extra...)
	g.svc, err = codegen.New(opts...)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// run loads the workspace, generates it and writes the sketch unless output
// goes to stdout. It returns the written path.
func (g *generator) run(ctx context.Context, wsPath string) (string, error) {
	ws, err := codegen.LoadWorkspace(wsPath)
	if err != nil {
		return "", err
	}
	if g.board != "" {
		ws.Board = g.board
	}
	res, err := g.svc.Generate(ctx, ws)
	if err != nil {
		return "", err
	}
	g.last = res
	if g.stdout {
		return "", nil
	}
	path, err := codegen.WriteSketch(g.dir, g.name, res.Code)
	if err != nil {
		return "", err
	}
	g.log.Info("sketch written",
		zap.String("path", path),
		zap.String("board", res.Board),
		zap.Int("conflicts", len(res.Conflicts)))
	return path, nil
}

func (g *generator) close() { g.svc.Close() }
