package cmd

import (
	"fmt"

	"github.com/bnema/simple-api/internal/cli"
	"github.com/bnema/simple-api/pkg/version"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func NewVersionCommand(a *cli.App) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display the version of simple-api",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Fprintln(a.Out, version.Version())
				return
			}
			color.New(color.FgGreen).Fprintf(a.Out, "simple-api %s\n", version.Version())
			fmt.Fprintf(a.Out, "Commit: %s\n", version.Commit())
			fmt.Fprintf(a.Out, "Built: %s\n", version.BuildDate())
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "Show only version number")
	return cmd
}
