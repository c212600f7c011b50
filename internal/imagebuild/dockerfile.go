package imagebuild

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"
	"text/template"

	"github.com/bnema/simple-api/internal/config"
	"github.com/bnema/simple-api/internal/launcher"
)

//go:embed templates/Dockerfile.tmpl
var dockerfileTemplate string

var tmpl = template.Must(template.New("Dockerfile").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(dockerfileTemplate))

// DefaultSourceDir is where the build stage copies the source tree.
const DefaultSourceDir = "/src"

// Spec holds the inputs of the rendered Dockerfile.
type Spec struct {
	BuilderImage    string
	RuntimeImage    string
	BuildPackages   []string
	RuntimePackages []string
	ManifestFiles   []string
	SourceDir       string
	WorkDir         string
	Binary          string
	Port            int
	AppTarget       string
}

// SpecFromConfig maps the Build section of the config to a Spec.
func SpecFromConfig(cfg config.BuildConfig) Spec {
	return Spec{
		BuilderImage:    cfg.BuilderImage,
		RuntimeImage:    cfg.RuntimeImage,
		BuildPackages:   cfg.BuildPackages,
		RuntimePackages: cfg.RuntimePackages,
		ManifestFiles:   []string{ModFile, SumFile},
		SourceDir:       DefaultSourceDir,
		WorkDir:         cfg.WorkDir,
		Binary:          cfg.Binary,
		Port:            config.DefaultPort,
		AppTarget:       launcher.DefaultTarget,
	}
}

func (s Spec) validate() error {
	var problems []string
	if s.BuilderImage == "" {
		problems = append(problems, "builder image is required")
	}
	if s.RuntimeImage == "" {
		problems = append(problems, "runtime image is required")
	}
	if !slices.Contains(s.ManifestFiles, ModFile) {
		problems = append(problems, "manifest files must include "+ModFile)
	}
	if !path.IsAbs(s.SourceDir) || !path.IsAbs(s.WorkDir) {
		problems = append(problems, "source and work directories must be absolute")
	}
	if s.Binary == "" || strings.ContainsAny(s.Binary, "/ ") {
		problems = append(problems, fmt.Sprintf("invalid binary name %q", s.Binary))
	}
	if s.Port < 1 || s.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d", s.Port))
	}
	if _, err := launcher.ParseTarget(s.AppTarget); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid dockerfile spec: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Render writes the Dockerfile for s. The same Spec always renders the same bytes.
func Render(w io.Writer, s Spec) error {
	if err := s.validate(); err != nil {
		return err
	}
	return tmpl.Execute(w, s)
}

// RenderString is Render into a string.
func RenderString(s Spec) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, s); err != nil {
		return "", err
	}
	return buf.String(), nil
}
