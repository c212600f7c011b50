package handler

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bnema/simple-api/internal/cli"
	"github.com/bnema/simple-api/internal/imagebuild"
	"github.com/bnema/simple-api/pkg/docker"
	"github.com/bnema/simple-api/pkg/version"
)

// BuildOptions are the flags of the build command.
type BuildOptions struct {
	ContextDir string
	Dockerfile string
	Tags       []string
	BuildArgs  map[string]string
	NoCache    bool
	Pull       bool
	DockerSock string
}

// versionBuildArgs are passed to every build unless overridden.
func versionBuildArgs() map[string]string {
	return map[string]string{
		"VERSION":    version.Version(),
		"COMMIT":     version.Commit(),
		"BUILD_DATE": version.BuildDate(),
	}
}

// ResolveBuildOptions fills unset options from the config.
func ResolveBuildOptions(a *cli.App, opts BuildOptions) imagebuild.Options {
	tags := opts.Tags
	if len(tags) == 0 {
		tags = []string{a.Config.Build.Tag}
	}

	args := versionBuildArgs()
	for k, v := range opts.BuildArgs {
		args[k] = v
	}

	dir := opts.ContextDir
	if dir == "" {
		dir = "."
	}

	return imagebuild.Options{
		ContextDir: dir,
		Dockerfile: opts.Dockerfile,
		Tags:       tags,
		BuildArgs:  args,
		NoCache:    opts.NoCache,
		Pull:       opts.Pull,
	}
}

// BuildImage validates the project and builds its image with the local engine.
// The returned ImageInfo is nil when the engine cannot describe the new image.
func BuildImage(ctx context.Context, a *cli.App, opts BuildOptions, progress io.Writer) (*imagebuild.Result, *docker.ImageInfo, error) {
	buildOpts := ResolveBuildOptions(a, opts)

	// Fail on project problems before requiring a daemon.
	if _, err := imagebuild.Prepare(buildOpts); err != nil {
		return nil, nil, err
	}

	client, err := docker.NewClient(docker.Config{Sock: opts.DockerSock})
	if err != nil {
		return nil, nil, err
	}
	defer client.Close()

	if err := docker.CheckConnection(ctx, client); err != nil {
		return nil, nil, err
	}

	res, err := imagebuild.NewBuilder(client, a.Logger, progress).Build(ctx, buildOpts)
	if err != nil {
		return nil, nil, err
	}

	ref := res.ImageID
	if ref == "" && len(res.Tags) > 0 {
		ref = res.Tags[0]
	}
	info, err := docker.GetImageInfo(ctx, client, ref)
	if err != nil {
		a.Logger.Warn("Could not inspect built image", "image", ref, "error", err)
		return res, nil, nil
	}
	return res, info, nil
}

// WriteDockerfile renders the Dockerfile for the configured build. An empty
// path writes to a.Out.
func WriteDockerfile(a *cli.App, path string) error {
	spec := imagebuild.SpecFromConfig(a.Config.Build)
	if path == "" || path == "-" {
		return imagebuild.Render(a.Out, spec)
	}

	content, err := imagebuild.RenderString(spec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	a.Logger.Info("Dockerfile written", "path", path)
	return nil
}

// CheckDockerfile reports ordering and pinning problems of an existing
// Dockerfile in dir.
func CheckDockerfile(dir, dockerfile string) error {
	if dockerfile == "" {
		dockerfile = "Dockerfile"
	}
	_, err := imagebuild.Prepare(imagebuild.Options{
		ContextDir: dir,
		Dockerfile: filepath.Clean(dockerfile),
	})
	return err
}
