package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/stage/internal/ui/output"
)

func TestProfile(t *testing.T) {
	var buf bytes.Buffer

	t.Run("NO_COLOR wins", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		t.Setenv("CI", "true")
		assert.Equal(t, termenv.Ascii, output.Profile(&buf))
	})

	t.Run("CI uses ANSI", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		t.Setenv("CI", "true")
		assert.Equal(t, termenv.ANSI, output.Profile(&buf))
	})

	t.Run("non-terminal writer is plain", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		t.Setenv("CI", "")
		assert.Equal(t, termenv.Ascii, output.Profile(&buf))
	})
}

func TestIsCI(t *testing.T) {
	t.Setenv("CI", "")
	assert.False(t, output.IsCI())
	t.Setenv("CI", "true")
	assert.True(t, output.IsCI())
}

func TestNew(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	out := output.New(&buf)

	_, _ = out.WriteString(out.String("plain").Foreground(termenv.ANSIRed).String())
	assert.Equal(t, "plain", buf.String())
}

func TestNew_Nil(t *testing.T) {
	assert.NotNil(t, output.New(nil))
}
