package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRulesCmd() *cobra.Command {
	var flags workspaceFlags
	var level string

	cmd := &cobra.Command{
		Use:   "rules <file>",
		Short: "List the grammar a source file is parsed with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, file, err := flags.open(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, l := range file.Result.Grammar.Levels() {
				if level != "" && l.Name != level {
					continue
				}
				fmt.Fprintf(out, "%s:\n", l.Name)
				for _, r := range l.Rules {
					fmt.Fprintf(out, "  [%s] %s\n", r.Source, r)
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&level, "level", "", "only list the named level")

	return cmd
}
