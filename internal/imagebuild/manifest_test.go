package imagebuild

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifest(t *testing.T) {
	dir := writeProject(t, nil)

	m, err := LoadManifest(dir)
	require.NoError(t, err)

	assert.Equal(t, "example.com/hello", m.Module)
	assert.Equal(t, "1.24", m.GoVersion)
	assert.Equal(t, []string{ModFile, SumFile}, m.Files)
	assert.Equal(t, []Dependency{
		{Path: "github.com/labstack/echo/v4", Version: "v4.13.3"},
		{Path: "golang.org/x/net", Version: "v0.33.0", Indirect: true},
	}, m.Dependencies)
	assert.Equal(t, []Dependency{{Path: "github.com/labstack/echo/v4", Version: "v4.13.3"}}, m.Direct())
}

func TestLoadManifest_NoDependencies(t *testing.T) {
	dir := writeProject(t, map[string]string{
		ModFile: "module example.com/empty\n\ngo 1.24\n",
		SumFile: "",
	})

	m, err := LoadManifest(dir)
	require.NoError(t, err)
	assert.Empty(t, m.Dependencies)
	assert.Equal(t, []string{ModFile}, m.Files)
}

func TestLoadManifest_Errors(t *testing.T) {
	t.Run("missing go.mod", func(t *testing.T) {
		_, err := LoadManifest(t.TempDir())
		assert.ErrorIs(t, err, ErrManifest)
	})

	t.Run("unparsable go.mod", func(t *testing.T) {
		dir := writeProject(t, map[string]string{ModFile: "module\nrequire (\n"})
		_, err := LoadManifest(dir)
		assert.ErrorIs(t, err, ErrManifest)
	})

	t.Run("no module directive", func(t *testing.T) {
		dir := writeProject(t, map[string]string{ModFile: "go 1.24\n"})
		_, err := LoadManifest(dir)
		assert.ErrorIs(t, err, ErrManifest)
	})

	t.Run("requirements without go.sum", func(t *testing.T) {
		dir := writeProject(t, nil)
		require.NoError(t, os.Remove(filepath.Join(dir, SumFile)))

		_, err := LoadManifest(dir)
		assert.ErrorIs(t, err, ErrManifest)
		assert.ErrorContains(t, err, "no go.sum")
	})
}

func TestManifestDigest(t *testing.T) {
	dir := writeProject(t, nil)
	m, err := LoadManifest(dir)
	require.NoError(t, err)

	first, err := m.Digest(dir)
	require.NoError(t, err)
	require.NoError(t, first.Validate())
	assert.Equal(t, digest.SHA256, first.Algorithm())

	t.Run("stable for an unchanged manifest", func(t *testing.T) {
		again, err := m.Digest(dir)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	})

	t.Run("source edits do not change it", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n\nfunc main() { println(1) }\n"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.go"), []byte("package main\n"), 0644))

		after, err := m.Digest(dir)
		require.NoError(t, err)
		assert.Equal(t, first, after)
	})

	t.Run("manifest edits change it", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, SumFile), []byte(testGoSum+"example.com/x v1.0.0 h1:eeee=\n"), 0644))

		after, err := m.Digest(dir)
		require.NoError(t, err)
		assert.NotEqual(t, first, after)
	})
}
