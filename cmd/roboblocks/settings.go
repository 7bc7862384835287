package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"roboblocks-go/services/codegen/config"
)

func newSettingsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the compiler settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print every setting",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := c.openSettings()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				vals := s.Values()
				for _, k := range config.Keys() {
					fmt.Fprintf(out, "%s = %s\n", k, vals[k])
				}
				fmt.Fprintf(out, "# board fqbn: %s\n", s.BoardFQBN())
				return nil
			},
		},
		&cobra.Command{
			Use:       "set <key> <value>",
			Short:     "Change one setting",
			Long:      "Keys: arduino_exec_path, arduino_board, arduino_serial_port, sketch_name, sketch_directory, ide_load.",
			Args:      cobra.ExactArgs(2),
			ValidArgs: config.Keys(),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := c.openSettings()
				if err != nil {
					return err
				}
				return s.Set(args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "load-options",
			Short: "List the accepted ide_load values",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				opts := config.LoadOptions()
				keys := make([]string, 0, len(opts))
				for k := range opts {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(cmd.OutOrStdout(), "%-7s %s\n", k, opts[k])
				}
				return nil
			},
		},
	)
	return cmd
}
