package cmd

import (
	"fmt"

	"github.com/bnema/simple-api/internal/cli"
	"github.com/bnema/simple-api/internal/cli/handler"
	"github.com/bnema/simple-api/internal/imagebuild"
	"github.com/spf13/cobra"
)

func NewManifestCommand(a *cli.App) *cobra.Command {
	var (
		direct bool
		digest bool
	)

	cmd := &cobra.Command{
		Use:   "manifest [dir]",
		Short: "List the dependencies installed in the dependency layer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			m, err := imagebuild.LoadManifest(dir)
			if err != nil {
				return err
			}

			if digest {
				d, err := m.Digest(dir)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.Out, d)
				return nil
			}
			fmt.Fprintln(a.Out, handler.RenderDependencies(m, direct))
			return nil
		},
	}
	cmd.Flags().BoolVar(&direct, "direct", false, "only direct requirements")
	cmd.Flags().BoolVar(&digest, "digest", false, "print the manifest digest used as the dependency layer cache key")
	return cmd
}
