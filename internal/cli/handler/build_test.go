package handler

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bnema/simple-api/internal/imagebuild"
	"github.com/bnema/simple-api/pkg/docker"
	"github.com/bnema/simple-api/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBuildOptions(t *testing.T) {
	a := newTestApp(io.Discard)

	t.Run("defaults from config", func(t *testing.T) {
		opts := ResolveBuildOptions(a, BuildOptions{})
		assert.Equal(t, ".", opts.ContextDir)
		assert.Equal(t, []string{"simple-api:latest"}, opts.Tags)
		assert.Equal(t, version.Version(), opts.BuildArgs["VERSION"])
		assert.Equal(t, version.Commit(), opts.BuildArgs["COMMIT"])
		assert.Equal(t, version.BuildDate(), opts.BuildArgs["BUILD_DATE"])
	})

	t.Run("flags win", func(t *testing.T) {
		opts := ResolveBuildOptions(a, BuildOptions{
			ContextDir: "app",
			Tags:       []string{"registry.example.com/simple-api:1.0.0"},
			BuildArgs:  map[string]string{"VERSION": "1.0.0", "EXTRA": "x"},
			NoCache:    true,
		})
		assert.Equal(t, "app", opts.ContextDir)
		assert.Equal(t, []string{"registry.example.com/simple-api:1.0.0"}, opts.Tags)
		assert.Equal(t, "1.0.0", opts.BuildArgs["VERSION"])
		assert.Equal(t, "x", opts.BuildArgs["EXTRA"])
		assert.True(t, opts.NoCache)
	})
}

func TestWriteDockerfile(t *testing.T) {
	a := newTestApp(io.Discard)
	want, err := imagebuild.RenderString(imagebuild.SpecFromConfig(a.Config.Build))
	require.NoError(t, err)

	t.Run("stdout", func(t *testing.T) {
		var out bytes.Buffer
		a.Out = &out
		require.NoError(t, WriteDockerfile(a, ""))
		assert.Equal(t, want, out.String())
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Dockerfile")
		require.NoError(t, WriteDockerfile(a, path))
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	})
}

func TestCheckDockerfile(t *testing.T) {
	a := newTestApp(io.Discard)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/app\n\ngo 1.24\n"), 0644))
	require.NoError(t, WriteDockerfile(a, filepath.Join(dir, "Dockerfile")))

	assert.NoError(t, CheckDockerfile(dir, ""))

	bad := "FROM golang:1.24.1\nCOPY . .\nRUN go mod download\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile.bad"), []byte(bad), 0644))
	assert.ErrorIs(t, CheckDockerfile(dir, "Dockerfile.bad"), imagebuild.ErrDockerfileOrder)
}

func TestRenderBuildSummary(t *testing.T) {
	out := RenderBuildSummary(&imagebuild.Result{
		ImageID:        "sha256:4f2ad3c1e0b9",
		Tags:           []string{"simple-api:latest", "simple-api:1.0.0"},
		ManifestDigest: "sha256:abc",
		Dependencies:   12,
		Duration:       1500 * time.Millisecond,
	}, nil)
	for _, want := range []string{"Image built", "sha256:4f2ad3c1e0b9", "simple-api:latest, simple-api:1.0.0", "12", "1.5s"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Size")

	withSize := RenderBuildSummary(&imagebuild.Result{Tags: []string{"simple-api:latest"}}, &docker.ImageInfo{Size: 42 << 20})
	assert.Contains(t, withSize, "42MiB")
	assert.Contains(t, withSize, "unknown")
}

func TestRenderDependencies(t *testing.T) {
	m := &imagebuild.Manifest{
		Module:    "example.com/app",
		GoVersion: "1.24",
		Dependencies: []imagebuild.Dependency{
			{Path: "github.com/labstack/echo/v4", Version: "v4.13.3"},
			{Path: "golang.org/x/net", Version: "v0.33.0", Indirect: true},
		},
	}

	all := RenderDependencies(m, false)
	assert.Contains(t, all, "example.com/app (go 1.24)")
	assert.Contains(t, all, "v0.33.0 (indirect)")

	direct := RenderDependencies(m, true)
	assert.Contains(t, direct, "github.com/labstack/echo/v4")
	assert.False(t, strings.Contains(direct, "golang.org/x/net"))

	empty := RenderDependencies(&imagebuild.Manifest{Module: "example.com/empty", GoVersion: "1.24"}, false)
	assert.Contains(t, empty, "no dependencies")
}
