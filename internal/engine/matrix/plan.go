package matrix

import (
	"fmt"
	"io"
	"strings"

	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/ui/style"
)

// PlannedEntry is an entry together with the steps it will run.
type PlannedEntry struct {
	Entry domain.MatrixEntry
	Steps []domain.StepDecl
}

// Plan lists the steps of every entry without running anything.
func Plan(project *domain.Project, entries []domain.MatrixEntry, coverage bool) []PlannedEntry {
	plan := make([]PlannedEntry, 0, len(entries))
	for _, entry := range entries {
		plan = append(plan, PlannedEntry{
			Entry: entry,
			Steps: project.Steps(entry, coverage),
		})
	}
	return plan
}

// planSummary returns entry names and step names in the shape the tracer expects.
func planSummary(plan []PlannedEntry) ([]string, map[string][]string) {
	names := make([]string, 0, len(plan))
	steps := make(map[string][]string, len(plan))
	for _, p := range plan {
		name := p.Entry.Name.String()
		names = append(names, name)
		list := make([]string, 0, len(p.Steps))
		for _, s := range p.Steps {
			list = append(list, string(s.Name))
		}
		steps[name] = list
	}
	return names, steps
}

// WritePlan prints the plan for humans.
func WritePlan(w io.Writer, project *domain.Project, plan []PlannedEntry) error {
	lg := style.NewRenderer(w)
	title := lg.NewStyle().Bold(true)
	faint := lg.NewStyle().Foreground(style.Slate)
	besteffort := lg.NewStyle().Foreground(style.Yellow)
	column := lg.NewStyle().Width(stepColumnWidth)

	noun := "entries"
	if len(plan) == 1 {
		noun = "entry"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", title.Render(project.Name),
		faint.Render(fmt.Sprintf("· %d matrix %s · channels: %s",
			len(plan), noun, strings.Join(project.Channels, ", "))))

	for _, p := range plan {
		fmt.Fprintf(&b, "\n%s %s\n", title.Render(p.Entry.Name.String()),
			faint.Render(fmt.Sprintf("(%s %s)", project.Manifest.InterpreterPackage(), p.Entry.Interpreter)))
		for i, s := range p.Steps {
			policy := faint.Render(string(s.Policy))
			if s.Policy == domain.PolicyBestEffort {
				policy = besteffort.Render(string(s.Policy))
			}
			fmt.Fprintf(&b, "  %d. %s%s\n", i+1, column.Render(string(s.Name)), policy)
		}
	}

	if len(project.Fixtures) > 0 {
		b.WriteString("\nfixtures\n")
		for _, f := range project.Fixtures {
			fmt.Fprintf(&b, "  %s → %s\n", f.Name, faint.Render(f.ExtractDir()))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

const stepColumnWidth = 11
