package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/yaksok/extension"
	"github.com/dhamidi/yaksok/workspace"
)

const version = "0.1.0"

// workspaceFlags are shared by every command that compiles files.
type workspaceFlags struct {
	prelude    string
	extensions []string
}

func (f *workspaceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.prelude, "prelude", "", "source file whose declarations every file can call")
	cmd.Flags().StringSliceVar(&f.extensions, "extension", nil, "extension manifest (JSON or YAML), repeatable")
}

func (f *workspaceFlags) options() ([]workspace.Option, error) {
	var opts []workspace.Option
	if f.prelude != "" {
		src, err := os.ReadFile(f.prelude)
		if err != nil {
			return nil, fmt.Errorf("read prelude: %w", err)
		}
		opts = append(opts, workspace.WithPrelude(string(src)))
	}
	var manifests []*extension.Manifest
	for _, path := range f.extensions {
		m, err := extension.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load extension: %w", err)
		}
		if !m.Supports(version) {
			return nil, fmt.Errorf("extension %s requires version %s", m.Name, m.Requires)
		}
		manifests = append(manifests, m)
	}
	if len(manifests) > 0 {
		opts = append(opts, workspace.WithExtensions(manifests...))
	}
	return opts, nil
}

// open loads the directory of filename and returns the workspace with
// filename compiled in it.
func (f *workspaceFlags) open(filename string) (*workspace.Workspace, *workspace.File, error) {
	filename = filepath.Clean(filename)
	opts, err := f.options()
	if err != nil {
		return nil, nil, err
	}
	ws, err := workspace.New(filepath.Dir(filename), opts...)
	if err != nil {
		return nil, nil, err
	}
	if err := ws.ScanAll(); err != nil {
		return nil, nil, fmt.Errorf("scan %s: %w", ws.RootDir(), err)
	}
	file := ws.GetFile(filename)
	if file == nil {
		if err := ws.ScanFile(filename); err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", filename, err)
		}
		file = ws.GetFile(filename)
	}
	return ws, file, nil
}

func main() {
	var verbose int

	rootCmd := &cobra.Command{
		Use:   "yaksok",
		Short: "Front end for the yaksok language",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbose, nil)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "log more, repeatable")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newRulesCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
