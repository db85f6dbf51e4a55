package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/ui/style"
	"go.trai.ch/zerr"
)

// StatusOptions configuration for the Status method.
type StatusOptions struct {
	Only []string
}

// Status prints the last recorded job of every selected entry.
func (a *App) Status(_ context.Context, opts StatusOptions) error {
	project, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	entries, err := project.Matrix.Select(opts.Only...)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(entries))
	records := make([]*domain.JobRecord, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name.String()
		rec, err := a.store.Get(project.Root, name)
		if err != nil {
			return zerr.With(err, "entry", name)
		}
		names = append(names, name)
		records = append(records, rec)
	}

	return writeStatus(a.stdout, names, records)
}

// writeStatus prints one block per entry. A nil record means the entry never ran.
func writeStatus(w io.Writer, names []string, records []*domain.JobRecord) error {
	lg := style.NewRenderer(w)
	faint := lg.NewStyle().Foreground(style.Slate)
	pass := lg.NewStyle().Foreground(style.Green)
	fail := lg.NewStyle().Foreground(style.Red)

	width := 0
	for _, n := range names {
		width = max(width, len(n))
	}
	column := lg.NewStyle().Width(width + 2)

	var b strings.Builder
	for i, rec := range records {
		if rec == nil {
			fmt.Fprintf(&b, "  %s %s%s\n", faint.Render(style.Dot), column.Render(names[i]), faint.Render("never run"))
			continue
		}

		icon := pass.Render(style.VerdictIcon(rec.Verdict))
		if rec.Verdict != domain.VerdictPass {
			icon = fail.Render(style.VerdictIcon(rec.Verdict))
		}
		fmt.Fprintf(&b, "  %s %s%s %s\n", icon, column.Render(names[i]), string(rec.Verdict),
			faint.Render(fmt.Sprintf("(run %s, %s)", rec.RunID, rec.Finished.UTC().Format(time.DateTime))))

		for _, s := range rec.Steps {
			status := domain.NormalizeStepStatus(string(s.Status))
			line := style.StatusIcon(status) + " " + string(s.Step)
			switch {
			case status == domain.StepStatusFailed && s.Error != "":
				line += ": " + strings.ReplaceAll(s.Error, "\n", "; ")
				fmt.Fprintf(&b, "      %s\n", fail.Render(line))
			case status == domain.StepStatusCompleted:
				fmt.Fprintf(&b, "      %s\n", line)
			default:
				fmt.Fprintf(&b, "      %s\n", faint.Render(line))
			}
		}
		for _, d := range rec.Degraded {
			fmt.Fprintf(&b, "      %s\n", faint.Render(style.Warning+" "+d+" not available"))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
