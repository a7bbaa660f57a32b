package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/yaksok/lsp"
)

func newLSPCmd() *cobra.Command {
	var flags workspaceFlags

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			server := lsp.NewServer(version, opts...)
			return server.RunStdio()
		},
	}
	flags.register(cmd)

	return cmd
}
