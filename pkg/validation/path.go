package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
)

// ValidateContextPath cleans a path given relative to the build context.
// Absolute paths and paths leaving the context are rejected because the
// engine only sees the files inside it.
func ValidateContextPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	cleanPath := filepath.Clean(path)
	if filepath.IsAbs(cleanPath) {
		return "", fmt.Errorf("absolute paths not allowed: %s", path)
	}
	if cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes the build context: %s", path)
	}
	return cleanPath, nil
}

// ValidateImageTag checks a tag the built image will be given. The
// repository must be lowercase; a missing tag means latest.
func ValidateImageTag(ref string) error {
	if ref == "" {
		return fmt.Errorf("image tag cannot be empty")
	}
	if strings.Contains(ref, "@") {
		return fmt.Errorf("invalid image tag %q: digests cannot be assigned to a build", ref)
	}
	if _, err := name.NewTag(ref); err != nil {
		return fmt.Errorf("invalid image tag %q: %w", ref, err)
	}
	return nil
}
