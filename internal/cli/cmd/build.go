package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/simple-api/internal/cli"
	"github.com/bnema/simple-api/internal/cli/handler"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func NewBuildCommand(a *cli.App) *cobra.Command {
	var (
		opts      handler.BuildOptions
		buildArgs []string
	)

	cmd := &cobra.Command{
		Use:   "build [context]",
		Short: "Build the container image with the local Docker engine",
		Long: `Validate the project (go.mod and go.sum, Dockerfile order, pinned base
images) and build the image. Nothing is sent to the engine when validation
fails, and a failed step never leaves a tagged image behind.`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: loadConfig(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.ContextDir = args[0]
			}
			parsed, err := parseBuildArgs(buildArgs)
			if err != nil {
				return err
			}
			opts.BuildArgs = parsed

			color.New(color.FgBlue).Fprintf(a.Out, "Building %s\n", strings.Join(handler.ResolveBuildOptions(a, opts).Tags, ", "))
			res, info, err := handler.BuildImage(cmd.Context(), a, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			fmt.Fprintln(a.Out, handler.RenderBuildSummary(res, info))
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Dockerfile, "file", "f", "Dockerfile", "Dockerfile path relative to the context")
	cmd.Flags().StringSliceVarP(&opts.Tags, "tag", "t", nil, "image tags (default from config)")
	cmd.Flags().StringArrayVar(&buildArgs, "build-arg", nil, "build-time variable KEY=VALUE")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "do not use the layer cache")
	cmd.Flags().BoolVar(&opts.Pull, "pull", false, "always pull newer base images")
	cmd.Flags().StringVar(&opts.DockerSock, "docker-sock", "", "Docker socket path (default from DOCKER_HOST)")
	return cmd
}

func parseBuildArgs(values []string) (map[string]string, error) {
	args := make(map[string]string, len(values))
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --build-arg %q, expected KEY=VALUE", v)
		}
		args[key] = value
	}
	return args, nil
}
