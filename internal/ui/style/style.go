// Package style holds the colours, icons and lipgloss styles shared by the CLI output.
package style

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/ui/output"
)

// Colors.
var (
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Skip    = "-"
	Dot     = "●"
)

// StatusIcon returns the icon for a step status.
func StatusIcon(s domain.StepStatus) string {
	switch s {
	case domain.StepStatusCompleted:
		return Check
	case domain.StepStatusFailed:
		return Cross
	case domain.StepStatusSkipped:
		return Skip
	default:
		return Dot
	}
}

// VerdictIcon returns the icon for an entry verdict.
func VerdictIcon(v domain.Verdict) string {
	if v == domain.VerdictPass {
		return Check
	}
	return Cross
}

// NewRenderer returns a lipgloss renderer for w using the CLI colour profile.
func NewRenderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(output.Profile(w))
	return r
}
