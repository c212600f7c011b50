package cmd

import (
	"github.com/bnema/simple-api/internal/cli"
	"github.com/bnema/simple-api/internal/cli/handler"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewDockerfileCommand renders the Dockerfile, or checks an existing one.
func NewDockerfileCommand(a *cli.App) *cobra.Command {
	var (
		output string
		check  bool
		dir    string
	)

	cmd := &cobra.Command{
		Use:   "dockerfile",
		Short: "Render the Dockerfile for the configured build",
		Long: `Render the two-stage Dockerfile built from the Build section of the config.
With --check, validate the existing Dockerfile instead: the dependency manifest
must be copied and installed before the source tree, package caches must be
removed in the same layer and base images must be pinned.`,
		Args:    cobra.NoArgs,
		PreRunE: loadConfig(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			if check {
				if err := handler.CheckDockerfile(dir, output); err != nil {
					return err
				}
				color.New(color.FgGreen).Fprintln(a.Out, "Dockerfile OK")
				return nil
			}
			return handler.WriteDockerfile(a, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout (with --check: the file to check)")
	cmd.Flags().BoolVar(&check, "check", false, "validate an existing Dockerfile")
	cmd.Flags().StringVar(&dir, "dir", ".", "project directory holding go.mod")
	return cmd
}
