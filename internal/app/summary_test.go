package app

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stage/internal/core/domain"
)

func TestWriteSummary(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	step := func(name domain.StepName, policy domain.StepPolicy, status domain.StepStatus, err error) domain.StepResult {
		return domain.StepResult{Step: name, Policy: policy, Status: status, Err: err}
	}
	fatal := func(name domain.StepName, status domain.StepStatus, err error) domain.StepResult {
		return step(name, domain.PolicyFatal, status, err)
	}

	reports := []domain.EntryReport{
		{
			Entry: domain.MatrixEntry{Name: domain.NewIdent("py2.7"), Interpreter: "2.7"},
			Steps: []domain.StepResult{
				fatal(domain.StepFixtures, domain.StepStatusCompleted, nil),
				fatal(domain.StepProvision, domain.StepStatusCompleted, nil),
				fatal(domain.StepInstall, domain.StepStatusCompleted, nil),
				fatal(domain.StepBuild, domain.StepStatusCompleted, nil),
				fatal(domain.StepTest, domain.StepStatusFailed, errors.New("exit status 1\n3 answers differ")),
			},
			Verdict:  domain.VerdictFail,
			Started:  started,
			Finished: started.Add(1500 * time.Millisecond),
		},
		{
			Entry: domain.MatrixEntry{Name: domain.NewIdent("py3.5"), Interpreter: "3.5"},
			Steps: []domain.StepResult{
				fatal(domain.StepFixtures, domain.StepStatusCompleted, nil),
				fatal(domain.StepProvision, domain.StepStatusCompleted, nil),
				fatal(domain.StepInstall, domain.StepStatusCompleted, nil),
				fatal(domain.StepBuild, domain.StepStatusCompleted, nil),
				fatal(domain.StepTest, domain.StepStatusCompleted, nil),
				step(domain.StepCoverage, domain.PolicyBestEffort, domain.StepStatusFailed, errors.New("upload refused")),
			},
			Verdict: domain.VerdictPass,
			Resolution: &domain.Resolution{
				Interpreter: domain.Package{Name: "python", Version: "3.5.2"},
				Degraded: []domain.DegradedDependency{
					{Name: "mpi4py", Purpose: "parallel execution disabled"},
				},
			},
			Started:  started,
			Finished: started.Add(2250 * time.Millisecond),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeSummary(&buf, reports))

	g := goldie.New(t)
	g.Assert(t, "summary", buf.Bytes())
}
