// the root command holds the flags shared by every subcommand
package cmd

import (
	"github.com/bnema/simple-api/internal/cli"
	"github.com/bnema/simple-api/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the simple-api command tree.
func NewRootCommand(a *cli.App) *cobra.Command {
	root := &cobra.Command{
		Use:   "simple-api",
		Short: "Simple test API and its container image tooling",
		Long: `simple-api serves a small JSON API on $PORT (default 8000) and builds
the container image that runs it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.Out = cmd.OutOrStdout()
			a.Logger.ConfigureFromEnv()
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.ConfigPath, "config", "",
		"config file (default $"+config.PathEnv+" or ./"+config.DefaultPath+")")

	root.AddCommand(
		NewServeCommand(a),
		NewDockerfileCommand(a),
		NewBuildCommand(a),
		NewManifestCommand(a),
		NewVersionCommand(a),
	)
	return root
}

// loadConfig is the PreRunE of commands that need the config file.
func loadConfig(a *cli.App) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if a.Config != nil {
			return nil
		}
		return a.LoadConfig()
	}
}
