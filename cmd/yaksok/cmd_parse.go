package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/yaksok/format"
	"github.com/dhamidi/yaksok/node"
)

func newParseCmd() *cobra.Command {
	var flags workspaceFlags
	var includePositions bool
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a source file and dump its tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, file, err := flags.open(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch outputFormat {
			case "json":
				return format.NewTreeJSONEncoder(out).Encode(file.Result.Tree)
			case "text":
				if includePositions {
					fmt.Fprint(out, node.DumpWithPositions(file.Result.Tree))
				} else {
					fmt.Fprint(out, node.Dump(file.Result.Tree))
				}
				return nil
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include node start positions")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")

	return cmd
}
