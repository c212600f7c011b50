package imagebuild

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/docker/docker/pkg/archive"
	"github.com/moby/patternmatcher/ignorefile"
)

const dockerignoreFile = ".dockerignore"

// ReadDockerignore returns the exclusion patterns of dir/.dockerignore, nil
// when the file does not exist.
func ReadDockerignore(dir string) ([]string, error) {
	f, err := os.Open(filepath.Join(dir, dockerignoreFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	patterns, err := ignorefile.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", dockerignoreFile, err)
	}
	return patterns, nil
}

// NewBuildContext tars dir honoring .dockerignore. The Dockerfile and the
// ignore file itself are always sent so the daemon can read them.
func NewBuildContext(dir, dockerfile string) (io.ReadCloser, error) {
	excludes, err := ReadDockerignore(dir)
	if err != nil {
		return nil, err
	}
	if len(excludes) > 0 {
		excludes = append(excludes, "!"+filepath.ToSlash(dockerfile), "!"+dockerignoreFile)
	}

	rc, err := archive.TarWithOptions(dir, &archive.TarOptions{
		ExcludePatterns: excludes,
	})
	if err != nil {
		return nil, fmt.Errorf("create build context: %w", err)
	}
	return rc, nil
}
