package app

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/ui/style"
)

// writeSummary prints one line per entry followed by its failures and degradations.
func writeSummary(w io.Writer, reports []domain.EntryReport) error {
	lg := style.NewRenderer(w)
	title := lg.NewStyle().Bold(true)
	faint := lg.NewStyle().Foreground(style.Slate)
	pass := lg.NewStyle().Foreground(style.Green)
	fail := lg.NewStyle().Foreground(style.Red)
	warn := lg.NewStyle().Foreground(style.Yellow)

	width := 0
	passed := 0
	for _, r := range reports {
		width = max(width, len(r.Entry.Name.String()))
		if r.Verdict == domain.VerdictPass {
			passed++
		}
	}
	name := lg.NewStyle().Width(width + 2)

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s %s\n", title.Render("Summary"),
		faint.Render(fmt.Sprintf("%d passed, %d failed", passed, len(reports)-passed)))

	for _, r := range reports {
		icon := pass.Render(style.VerdictIcon(r.Verdict))
		if r.Verdict != domain.VerdictPass {
			icon = fail.Render(style.VerdictIcon(r.Verdict))
		}
		elapsed := r.Finished.Sub(r.Started).Round(time.Millisecond)
		fmt.Fprintf(&b, "  %s %s%s %s\n", icon, name.Render(r.Entry.Name.String()),
			string(r.Verdict), faint.Render("("+elapsed.String()+")"))

		for _, s := range r.Steps {
			if s.Status != domain.StepStatusFailed {
				continue
			}
			line := fmt.Sprintf("%s %s: %s", style.Cross, s.Step, strings.ReplaceAll(fmt.Sprint(s.Err), "\n", "; "))
			if s.Policy == domain.PolicyBestEffort {
				fmt.Fprintf(&b, "      %s\n", warn.Render(line+" (ignored)"))
				continue
			}
			fmt.Fprintf(&b, "      %s\n", fail.Render(line))
		}
		if r.Resolution != nil {
			for _, d := range r.Resolution.Degraded {
				fmt.Fprintf(&b, "      %s\n", warn.Render(style.Warning+" "+d.String()))
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
