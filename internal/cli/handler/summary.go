package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/simple-api/internal/imagebuild"
	"github.com/bnema/simple-api/pkg/docker"
	"github.com/charmbracelet/lipgloss"
	"github.com/docker/go-units"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Width(18)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#54baff"))
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")).MarginBottom(1)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("69")).Padding(0, 1)
)

func summaryRow(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

// RenderBuildSummary formats a finished build for the terminal. info may be nil.
func RenderBuildSummary(res *imagebuild.Result, info *docker.ImageInfo) string {
	id := res.ImageID
	if id == "" {
		id = "unknown"
	}
	rows := []string{
		titleStyle.Render("Image built"),
		summaryRow("Image", id),
		summaryRow("Tags", strings.Join(res.Tags, ", ")),
		summaryRow("Dependencies", fmt.Sprintf("%d", res.Dependencies)),
		summaryRow("Manifest digest", res.ManifestDigest.String()),
		summaryRow("Duration", res.Duration.Round(time.Millisecond).String()),
	}
	if info != nil {
		rows = append(rows, summaryRow("Size", units.BytesSize(float64(info.Size))))
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// RenderDependencies formats the manifest dependency list.
func RenderDependencies(m *imagebuild.Manifest, directOnly bool) string {
	deps := m.Dependencies
	if directOnly {
		deps = m.Direct()
	}

	width := 0
	for _, d := range deps {
		width = max(width, len(d.Path)+2)
	}
	pathStyle := labelStyle.Width(width)

	rows := []string{titleStyle.Render(fmt.Sprintf("%s (go %s)", m.Module, m.GoVersion))}
	for _, d := range deps {
		v := d.Version
		if d.Indirect {
			v += " (indirect)"
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, pathStyle.Render(d.Path), valueStyle.Render(v)))
	}
	if len(deps) == 0 {
		rows = append(rows, labelStyle.UnsetWidth().Render("no dependencies"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
