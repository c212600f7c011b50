package imagebuild

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/simple-api/internal/config"
	"github.com/stretchr/testify/require"
)

const testGoMod = `module example.com/hello

go 1.24

require (
	github.com/labstack/echo/v4 v4.13.3
	golang.org/x/net v0.33.0 // indirect
)
`

const testGoSum = `github.com/labstack/echo/v4 v4.13.3 h1:aaaa=
github.com/labstack/echo/v4 v4.13.3/go.mod h1:bbbb=
golang.org/x/net v0.33.0 h1:cccc=
golang.org/x/net v0.33.0/go.mod h1:dddd=
`

// writeProject lays out a buildable context with a rendered Dockerfile.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	dockerfile, err := RenderString(SpecFromConfig(config.Default().Build))
	require.NoError(t, err)

	defaults := map[string]string{
		ModFile:      testGoMod,
		SumFile:      testGoSum,
		"main.go":    "package main\n\nfunc main() {}\n",
		"Dockerfile": dockerfile,
	}
	for name, content := range files {
		defaults[name] = content
	}

	for name, content := range defaults {
		if content == "" {
			continue
		}
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return dir
}
