package linear_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stage/internal/adapters/linear"
)

func newRenderer(t *testing.T) (*linear.Renderer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("CI", "")
	t.Setenv("NO_COLOR", "1")

	var stdout, stderr bytes.Buffer
	return linear.NewRenderer(&stdout, &stderr), &stdout, &stderr
}

func TestRenderer_Lifecycle(t *testing.T) {
	r, stdout, stderr := newRenderer(t)
	require.NoError(t, r.Start(context.Background()))

	r.OnPlanEmit([]string{"py2.7", "py3.5"}, map[string][]string{
		"py2.7": {"fixtures", "provision"},
		"py3.5": {"fixtures", "provision"},
	})

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.OnTaskStart("entry", "", "py3.5", start)
	r.OnTaskStart("step", "entry", "test", start)
	r.OnTaskLog("step", []byte("collected 3 items\n3 passed"))
	r.OnTaskComplete("step", start.Add(1500*time.Millisecond), nil)
	r.OnTaskComplete("entry", start.Add(2*time.Second), errors.New("coverage failed"))

	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())

	assert.Equal(t, "[py3.5/test] collected 3 items\n[py3.5/test] 3 passed\n", stdout.String())
	assert.Equal(t,
		"Running 2 matrix entries: py2.7, py3.5\n"+
			"  py2.7: fixtures → provision\n"+
			"  py3.5: fixtures → provision\n"+
			"[py3.5] Starting...\n"+
			"[py3.5/test] Starting...\n"+
			"[py3.5/test] ✓ Completed in 1.5s\n"+
			"[py3.5] ✗ Failed after 2s: coverage failed\n",
		stderr.String())
}

func TestRenderer_PartialLines(t *testing.T) {
	r, stdout, _ := newRenderer(t)

	r.OnTaskStart("s", "", "build", time.Now())
	r.OnTaskLog("s", []byte("partial"))
	assert.Empty(t, stdout.String())

	r.OnTaskLog("s", []byte(" line\r\nnext"))
	assert.Equal(t, "[build] partial line\n", stdout.String())

	require.NoError(t, r.Stop())
	assert.Equal(t, "[build] partial line\n[build] next\n", stdout.String())
}

func TestRenderer_UnknownSpan(t *testing.T) {
	r, stdout, stderr := newRenderer(t)

	r.OnTaskLog("missing", []byte("ignored\n"))
	r.OnTaskComplete("missing", time.Now(), nil)

	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRenderer_SingleEntryPlan(t *testing.T) {
	r, _, stderr := newRenderer(t)

	r.OnPlanEmit([]string{"py3.5"}, map[string][]string{"py3.5": {"test"}})
	assert.Contains(t, stderr.String(), "Running 1 matrix entry: py3.5\n")
}
