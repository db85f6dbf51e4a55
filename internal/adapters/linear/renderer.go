// Package linear provides a synchronous, line-buffered renderer for CI logs.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/stage/internal/core/ports"
	"go.trai.ch/stage/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer for CI and other non-interactive output.
// Step output goes to stdout prefixed with "[entry/step]"; lifecycle lines go to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer

	faint lipgloss.Style
	ok    lipgloss.Style
	fail  lipgloss.Style

	mu      sync.Mutex
	tasks   map[string]*taskState
	buffers map[string]*bytes.Buffer
}

type taskState struct {
	label     string
	startTime time.Time
}

// NewRenderer creates a new Renderer. Nil writers default to os.Stdout and os.Stderr.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	lg := style.NewRenderer(stderr)

	return &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		faint:   lg.NewStyle().Foreground(style.Slate),
		ok:      lg.NewStyle().Foreground(style.Green),
		fail:    lg.NewStyle().Foreground(style.Red),
		tasks:   make(map[string]*taskState),
		buffers: make(map[string]*bytes.Buffer),
	}
}

// Start is a no-op; the renderer writes synchronously.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes all remaining buffers.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for spanID := range r.buffers {
		r.flushBufferLocked(spanID)
	}
	return nil
}

// Wait is a no-op; the renderer writes synchronously.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the matrix about to run.
func (r *Renderer) OnPlanEmit(entries []string, steps map[string][]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	noun := "entries"
	if len(entries) == 1 {
		noun = "entry"
	}
	_, _ = fmt.Fprintf(r.stderr, "Running %d matrix %s: %s\n", len(entries), noun, strings.Join(entries, ", "))
	for _, e := range entries {
		line := fmt.Sprintf("  %s: %s", e, strings.Join(steps[e], " → "))
		_, _ = fmt.Fprintln(r.stderr, r.faint.Render(line))
	}
}

// OnTaskStart prints a start line. Steps are labelled with their entry.
func (r *Renderer) OnTaskStart(spanID, parentID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	label := name
	if parent, ok := r.tasks[parentID]; ok {
		label = parent.label + "/" + name
	}

	r.tasks[spanID] = &taskState{label: label, startTime: startTime}
	r.buffers[spanID] = new(bytes.Buffer)

	_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", r.faint.Render("["+label+"]"))
}

// OnTaskLog buffers output and prints complete lines with the task label.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	buf.Write(data)

	for {
		i := bytes.IndexByte(buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := buf.Next(i + 1)
		r.printLineLocked(task.label, line)
	}
}

// OnTaskComplete flushes the remaining output and prints the outcome.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	r.flushBufferLocked(spanID)

	duration := endTime.Sub(task.startTime).Round(time.Millisecond)
	prefix := "[" + task.label + "]"

	if err != nil {
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n",
			prefix, r.fail.Render(style.Cross), duration, err)
	} else {
		_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n",
			prefix, r.ok.Render(style.Check), duration)
	}

	delete(r.tasks, spanID)
	delete(r.buffers, spanID)
}

// flushBufferLocked prints a trailing partial line. Must be called with r.mu held.
func (r *Renderer) flushBufferLocked(spanID string) {
	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	if buf != nil && buf.Len() > 0 {
		r.printLineLocked(task.label, buf.Bytes())
		buf.Reset()
	}
}

// printLineLocked must be called with r.mu held.
func (r *Renderer) printLineLocked(label string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	if len(line) == 0 {
		return
	}

	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", label, line)
}
