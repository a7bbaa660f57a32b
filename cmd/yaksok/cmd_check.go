package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/yaksok/format"
)

func newCheckCmd() *cobra.Command {
	var flags workspaceFlags
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Report the diagnostics of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, file, err := flags.open(args[0])
			if err != nil {
				return err
			}
			diags := ws.Check(file.Path)

			out := cmd.OutOrStdout()
			switch outputFormat {
			case "json":
				if err := format.NewDiagnosticJSONEncoder(out, file.Path).Encode(diags); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			case "text":
				for _, d := range diags {
					fmt.Fprintf(out, "%s:%s\n", file.Path, d.Error())
					if d.Suggestion != "" {
						fmt.Fprintf(out, "  혹시 %q를 사용하려고 했나요?\n", d.Suggestion)
					}
				}
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if len(diags) > 0 {
				return fmt.Errorf("%s: %d problems", file.Path, len(diags))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")

	return cmd
}
