package style_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/ui/style"
)

func TestStatusIcon(t *testing.T) {
	assert.Equal(t, style.Check, style.StatusIcon(domain.StepStatusCompleted))
	assert.Equal(t, style.Cross, style.StatusIcon(domain.StepStatusFailed))
	assert.Equal(t, style.Skip, style.StatusIcon(domain.StepStatusSkipped))
	assert.Equal(t, style.Dot, style.StatusIcon(domain.StepStatusPending))
}

func TestVerdictIcon(t *testing.T) {
	assert.Equal(t, style.Check, style.VerdictIcon(domain.VerdictPass))
	assert.Equal(t, style.Cross, style.VerdictIcon(domain.VerdictFail))
}

func TestNewRenderer_PlainForBuffers(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("NO_COLOR", "")

	var buf bytes.Buffer
	r := style.NewRenderer(&buf)
	got := r.NewStyle().Foreground(style.Green).Bold(true).Render(style.Check)
	assert.Equal(t, style.Check, got)
}
