// the serve command runs the HTTP application in the foreground
package cmd

import (
	"github.com/bnema/simple-api/internal/cli"
	"github.com/bnema/simple-api/internal/cli/handler"
	"github.com/bnema/simple-api/internal/config"
	"github.com/bnema/simple-api/internal/launcher"
	"github.com/spf13/cobra"
)

func NewServeCommand(a *cli.App) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the application on " + launcher.BindHost + ":$" + config.PortEnv,
		Long: `Serve resolves the listening port from $PORT (default 8000), initializes
the application and serves it until SIGINT or SIGTERM.

Exit codes: 0 after a signal, 2 for an invalid port or config, 3 when the
application cannot be resolved or initialized, 4 when the port cannot be bound.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return handler.StartServer(cmd.Context(), a, handler.ServerOptions{
				Target: target,
			})
		},
	}
	cmd.Flags().StringVar(&target, "app", launcher.DefaultTarget, "application to serve as module:attribute")
	cmd.Flags().SortFlags = false
	return cmd
}
