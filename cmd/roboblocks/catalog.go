package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"roboblocks-go/services/codegen"
)

func newBlocksCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "blocks",
		Short: "List the available blocks with options for the selected board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := codegen.Blocks(c.board)
			if err != nil {
				return err
			}
			return printYAML(cmd, infos)
		},
	}
}

func newBoardsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "boards",
		Short: "List board pin profiles and compiler board names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printYAML(cmd, struct {
				Profiles []codegen.BoardInfo  `yaml:"profiles"`
				Targets  []codegen.TargetInfo `yaml:"targets"`
			}{codegen.Boards(), codegen.Targets()})
		},
	}
}

func printYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
