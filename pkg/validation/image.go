package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/google/go-containerregistry/pkg/name"
)

// ErrUnpinnedImage is returned for references that may resolve to different
// images over time.
var ErrUnpinnedImage = errors.New("image reference is not pinned")

// PinnedImage is a validated base image reference.
type PinnedImage struct {
	Reference  string
	Repository string
	// Version is the semantic version read from the tag, nil for digests.
	Version *semver.Version
	Digest  string
}

// ParsePinnedImage accepts digest references and tags whose leading segment
// is a version:
//   - golang:1.24.1-bookworm
//   - debian:12.9-slim
//   - registry.example.com/base@sha256:...
//
// latest, missing tags and codename-only tags (bookworm) are rejected.
func ParsePinnedImage(ref string) (*PinnedImage, error) {
	parsed, err := name.ParseReference(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid image reference %q: %w", ref, err)
	}

	p := &PinnedImage{
		Reference:  ref,
		Repository: parsed.Context().String(),
	}

	switch r := parsed.(type) {
	case name.Digest:
		p.Digest = r.DigestStr()
		return p, nil
	case name.Tag:
		tag := r.TagStr()
		leading, _, _ := strings.Cut(tag, "-")
		v, err := semver.NewVersion(leading)
		if err != nil {
			return nil, fmt.Errorf("%w: %s has tag %q without a version", ErrUnpinnedImage, ref, tag)
		}
		p.Version = v
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnpinnedImage, ref)
	}
}

// ValidatePinnedImage reports whether ref is pinned.
func ValidatePinnedImage(ref string) error {
	_, err := ParsePinnedImage(ref)
	return err
}
