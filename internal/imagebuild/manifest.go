package imagebuild

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"
	"golang.org/x/mod/modfile"
)

const (
	ModFile = "go.mod"
	SumFile = "go.sum"
)

// ErrManifest wraps every dependency manifest failure.
var ErrManifest = errors.New("dependency manifest")

// Dependency is one requirement of the manifest.
type Dependency struct {
	Path     string
	Version  string
	Indirect bool
}

// Manifest is the parsed dependency manifest of a build context.
type Manifest struct {
	Module       string
	GoVersion    string
	Dependencies []Dependency
	// Files are the manifest files relative to the context, in copy order.
	Files []string
}

// LoadManifest parses go.mod in dir. Requirements without a go.sum are
// rejected since the install step verifies checksums.
func LoadManifest(dir string) (*Manifest, error) {
	modPath := filepath.Join(dir, ModFile)
	data, err := os.ReadFile(modPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}

	f, err := modfile.Parse(modPath, data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}
	if f.Module == nil {
		return nil, fmt.Errorf("%w: %s has no module directive", ErrManifest, modPath)
	}

	m := &Manifest{
		Module: f.Module.Mod.Path,
		Files:  []string{ModFile},
	}
	if f.Go != nil {
		m.GoVersion = f.Go.Version
	}
	for _, r := range f.Require {
		m.Dependencies = append(m.Dependencies, Dependency{
			Path:     r.Mod.Path,
			Version:  r.Mod.Version,
			Indirect: r.Indirect,
		})
	}

	_, err = os.Stat(filepath.Join(dir, SumFile))
	switch {
	case err == nil:
		m.Files = append(m.Files, SumFile)
	case errors.Is(err, fs.ErrNotExist):
		if len(m.Dependencies) > 0 {
			return nil, fmt.Errorf("%w: %d requirements but no %s", ErrManifest, len(m.Dependencies), SumFile)
		}
	default:
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}

	return m, nil
}

// Direct returns the requirements not marked indirect.
func (m *Manifest) Direct() []Dependency {
	var out []Dependency
	for _, d := range m.Dependencies {
		if !d.Indirect {
			out = append(out, d)
		}
	}
	return out
}

// Digest hashes the manifest files only. It is the cache key of the
// dependency layer: source edits never change it.
func (m *Manifest) Digest(dir string) (digest.Digest, error) {
	digester := digest.Canonical.Digester()
	h := digester.Hash()
	for _, name := range m.Files {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrManifest, err)
		}
		fmt.Fprintf(h, "%s %d\n", name, len(data))
		h.Write(data)
	}
	return digester.Digest(), nil
}
