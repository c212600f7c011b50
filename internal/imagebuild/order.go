package imagebuild

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/moby/buildkit/frontend/dockerfile/parser"
)

// ErrDockerfileOrder wraps every ordering or cleanup violation.
var ErrDockerfileOrder = errors.New("dockerfile order")

// Instruction is one Dockerfile instruction as seen by the ordering checks.
type Instruction struct {
	Line     int
	Cmd      string
	Flags    []string
	Operands []string
	// Args is the operands and heredoc bodies on one whitespace-normalized line.
	Args  string
	Stage int
}

// installMarkers identify the RUN step that installs language dependencies.
var installMarkers = []string{"go mod download", "pip install", "npm ci"}

// ParseInstructions parses a Dockerfile with the BuildKit frontend parser, so
// heredocs and parser directives are read the way a build reads them. Stage
// counts FROM instructions from 0.
func ParseInstructions(r io.Reader) ([]Instruction, error) {
	res, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse dockerfile: %w", err)
	}

	var out []Instruction
	stage := -1
	for _, node := range res.AST.Children {
		in := Instruction{
			Line:  node.StartLine,
			Cmd:   strings.ToUpper(node.Value),
			Flags: node.Flags,
		}
		if in.Cmd == "FROM" {
			stage++
		}
		in.Stage = stage

		parts := make([]string, 0, 4)
		for n := node.Next; n != nil; n = n.Next {
			in.Operands = append(in.Operands, n.Value)
			parts = append(parts, n.Value)
		}
		for _, h := range node.Heredocs {
			parts = append(parts, h.Content)
		}
		in.Args = strings.Join(strings.Fields(strings.Join(parts, " ")), " ")

		out = append(out, in)
	}
	return out, nil
}

// CheckOrder verifies that the dependency manifest is copied and installed
// before the source tree is copied, and that package index caches are
// removed in the layer that created them.
func CheckOrder(instructions []Instruction, manifestFiles []string) error {
	var violations []error

	install := -1
	for i, in := range instructions {
		if in.Cmd == "RUN" && isInstallStep(in.Args) {
			install = i
			break
		}
	}

	if install < 0 {
		violations = append(violations, errors.New("no dependency install step found"))
	} else {
		violations = append(violations, checkStageOrder(instructions, install, manifestFiles)...)
	}

	for _, in := range instructions {
		if in.Cmd != "RUN" {
			continue
		}
		if strings.Contains(in.Args, "apt-get install") && !strings.Contains(in.Args, "rm -rf /var/lib/apt/lists") {
			violations = append(violations, fmt.Errorf("line %d: apt-get install without removing /var/lib/apt/lists in the same layer", in.Line))
		}
		if strings.Contains(in.Args, "apk add") && !strings.Contains(in.Args, "--no-cache") {
			violations = append(violations, fmt.Errorf("line %d: apk add without --no-cache", in.Line))
		}
	}

	if len(violations) > 0 {
		return fmt.Errorf("%w: %w", ErrDockerfileOrder, errors.Join(violations...))
	}
	return nil
}

func checkStageOrder(instructions []Instruction, install int, manifestFiles []string) []error {
	var violations []error
	stage := instructions[install].Stage
	installLine := instructions[install].Line

	manifestCopy, sourceCopy := -1, -1
	for i, in := range instructions {
		if in.Stage != stage || in.Cmd != "COPY" {
			continue
		}
		sources, external := copySources(in)
		if external {
			continue
		}
		if sourceCopy < 0 && copiesWholeTree(sources) {
			sourceCopy = i
			continue
		}
		if manifestCopy < 0 && copiesManifest(sources, manifestFiles) {
			manifestCopy = i
		}
	}

	switch {
	case manifestCopy < 0:
		violations = append(violations, fmt.Errorf("line %d: dependency install runs without a prior COPY of %s", installLine, strings.Join(manifestFiles, ", ")))
	case manifestCopy > install:
		violations = append(violations, fmt.Errorf("line %d: manifest is copied after the install step", instructions[manifestCopy].Line))
	}

	switch {
	case sourceCopy < 0:
		violations = append(violations, errors.New("source tree is never copied"))
	case sourceCopy < install:
		violations = append(violations, fmt.Errorf("line %d: source tree is copied before the dependency install step on line %d", instructions[sourceCopy].Line, installLine))
	}

	return violations
}

func isInstallStep(args string) bool {
	for _, m := range installMarkers {
		if strings.Contains(args, m) {
			return true
		}
	}
	return false
}

// copySources returns the source operands of a COPY. external is true for
// COPY --from, which never reads the build context.
func copySources(in Instruction) (sources []string, external bool) {
	for _, f := range in.Flags {
		if strings.HasPrefix(f, "--from") {
			external = true
		}
	}
	if len(in.Operands) < 2 {
		return nil, external
	}
	return in.Operands[:len(in.Operands)-1], external
}

func copiesWholeTree(sources []string) bool {
	for _, s := range sources {
		if s == "." || s == "./" {
			return true
		}
	}
	return false
}

func copiesManifest(sources, manifestFiles []string) bool {
	for _, s := range sources {
		for _, m := range manifestFiles {
			if path.Clean(s) == m {
				return true
			}
		}
	}
	return false
}

// BaseImages returns the external images named by FROM lines, skipping
// scratch and references to earlier stages.
func BaseImages(instructions []Instruction) []string {
	stages := map[string]bool{}
	var images []string
	for _, in := range instructions {
		if in.Cmd != "FROM" || len(in.Operands) == 0 {
			continue
		}
		image := in.Operands[0]
		if image != "scratch" && !stages[strings.ToLower(image)] {
			images = append(images, image)
		}
		if len(in.Operands) >= 3 && strings.EqualFold(in.Operands[1], "AS") {
			stages[strings.ToLower(in.Operands[2])] = true
		}
	}
	return images
}
