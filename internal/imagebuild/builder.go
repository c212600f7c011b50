package imagebuild

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/bnema/simple-api/pkg/logger"
	"github.com/bnema/simple-api/pkg/validation"
	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/opencontainers/go-digest"
)

// ErrBuildFailed wraps failures reported by the engine.
var ErrBuildFailed = errors.New("image build failed")

// LabelManifestDigest records the dependency layer cache key on the image.
const LabelManifestDigest = "io.simple-api.manifest-digest"

// Engine is the part of the Docker Engine API the builder needs.
type Engine interface {
	ImageBuild(ctx context.Context, buildContext io.Reader, options build.ImageBuildOptions) (build.ImageBuildResponse, error)
}

// Options select what to build.
type Options struct {
	ContextDir string
	Dockerfile string
	Tags       []string
	BuildArgs  map[string]string
	NoCache    bool
	Pull       bool
}

// Plan is everything validated before the engine is contacted.
type Plan struct {
	ContextDir     string
	Dockerfile     string
	Manifest       *Manifest
	ManifestDigest digest.Digest
	BaseImages     []*validation.PinnedImage
}

// Result describes a finished build.
type Result struct {
	ImageID        string
	Tags           []string
	ManifestDigest digest.Digest
	Dependencies   int
	Duration       time.Duration
}

type Builder struct {
	engine   Engine
	log      *logger.Logger
	progress io.Writer
}

// NewBuilder returns a builder streaming engine progress to progress.
func NewBuilder(engine Engine, l *logger.Logger, progress io.Writer) *Builder {
	if l == nil {
		l = logger.GetLogger()
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Builder{engine: engine, log: l, progress: progress}
}

// Prepare validates the build inputs: the dependency manifest, the
// Dockerfile ordering and the pinning of every base image.
func Prepare(opts Options) (*Plan, error) {
	dir := opts.ContextDir
	if dir == "" {
		dir = "."
	}
	dockerfile := opts.Dockerfile
	if dockerfile == "" {
		dockerfile = "Dockerfile"
	}
	dockerfile, err := validation.ValidateContextPath(dockerfile)
	if err != nil {
		return nil, fmt.Errorf("dockerfile: %w", err)
	}
	for _, tag := range opts.Tags {
		if err := validation.ValidateImageTag(tag); err != nil {
			return nil, err
		}
	}

	manifest, err := LoadManifest(dir)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(dir, dockerfile))
	if err != nil {
		return nil, fmt.Errorf("open dockerfile: %w", err)
	}
	defer f.Close()

	instructions, err := ParseInstructions(f)
	if err != nil {
		return nil, err
	}
	if err := CheckOrder(instructions, manifest.Files); err != nil {
		return nil, err
	}

	plan := &Plan{
		ContextDir: dir,
		Dockerfile: dockerfile,
		Manifest:   manifest,
	}
	for _, ref := range BaseImages(instructions) {
		pinned, err := validation.ParsePinnedImage(ref)
		if err != nil {
			return nil, err
		}
		if err := checkToolchain(pinned, manifest.GoVersion); err != nil {
			return nil, err
		}
		plan.BaseImages = append(plan.BaseImages, pinned)
	}

	plan.ManifestDigest, err = manifest.Digest(dir)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// checkToolchain rejects golang builder images older than the go directive.
func checkToolchain(image *validation.PinnedImage, goVersion string) error {
	if image.Version == nil || goVersion == "" || !strings.HasSuffix(image.Repository, "/golang") {
		return nil
	}
	required, err := semver.NewVersion(goVersion)
	if err != nil {
		return nil
	}
	if image.Version.LessThan(required) {
		return fmt.Errorf("builder image %s is older than go %s required by %s", image.Reference, goVersion, ModFile)
	}
	return nil
}

// Build validates the inputs, then asks the engine to build the image. Any
// error aborts the build; no partial image is tagged.
func (b *Builder) Build(ctx context.Context, opts Options) (*Result, error) {
	started := time.Now()

	plan, err := Prepare(opts)
	if err != nil {
		return nil, err
	}
	b.log.Info("Build inputs validated",
		"module", plan.Manifest.Module,
		"dependencies", len(plan.Manifest.Dependencies),
		"manifest_digest", plan.ManifestDigest,
	)
	for _, img := range plan.BaseImages {
		b.log.Debug("Base image pinned", "image", img.Reference)
	}

	buildCtx, err := NewBuildContext(plan.ContextDir, plan.Dockerfile)
	if err != nil {
		return nil, err
	}
	defer buildCtx.Close()

	args := make(map[string]*string, len(opts.BuildArgs))
	for k, v := range opts.BuildArgs {
		args[k] = &v
	}

	resp, err := b.engine.ImageBuild(ctx, buildCtx, build.ImageBuildOptions{
		Tags:        opts.Tags,
		Dockerfile:  filepath.ToSlash(plan.Dockerfile),
		BuildArgs:   args,
		NoCache:     opts.NoCache,
		PullParent:  opts.Pull,
		Remove:      true,
		ForceRemove: true,
		Labels: map[string]string{
			LabelManifestDigest: plan.ManifestDigest.String(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}
	defer resp.Body.Close()

	var imageID string
	err = jsonmessage.DisplayJSONMessagesStream(resp.Body, b.progress, 0, false, func(msg jsonmessage.JSONMessage) {
		if msg.Aux == nil {
			return
		}
		var aux struct {
			ID string `json:"ID"`
		}
		if json.Unmarshal(*msg.Aux, &aux) == nil && aux.ID != "" {
			imageID = aux.ID
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}
	if imageID == "" {
		b.log.Warn("Engine did not report an image ID")
	}

	res := &Result{
		ImageID:        imageID,
		Tags:           opts.Tags,
		ManifestDigest: plan.ManifestDigest,
		Dependencies:   len(plan.Manifest.Dependencies),
		Duration:       time.Since(started),
	}
	b.log.Info("Image built", "id", res.ImageID, "tags", strings.Join(res.Tags, ","), "duration", res.Duration.Round(time.Millisecond))
	return res, nil
}
