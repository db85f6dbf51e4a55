package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/stage/internal/core/domain"
)

func TestProject_EntryVariables(t *testing.T) {
	p := &domain.Project{Variables: map[string]string{"MPLBACKEND": "agg", "OMP_NUM_THREADS": "1"}}
	entry := domain.MatrixEntry{Variables: map[string]string{"OMP_NUM_THREADS": "2"}}

	vars := p.EntryVariables(entry)
	assert.Equal(t, "utf-8", vars["PYTHONIOENCODING"])
	assert.Equal(t, "agg", vars["MPLBACKEND"])
	assert.Equal(t, "2", vars["OMP_NUM_THREADS"])

	p.Variables["PYTHONIOENCODING"] = "ascii"
	assert.Equal(t, "ascii", p.EntryVariables(entry)["PYTHONIOENCODING"])
}

func TestProject_Steps(t *testing.T) {
	p := &domain.Project{Commands: domain.Commands{Coverage: []string{"coveralls"}}}
	names := func(decls []domain.StepDecl) []domain.StepName {
		out := make([]domain.StepName, 0, len(decls))
		for _, d := range decls {
			out = append(out, d.Name)
		}
		return out
	}
	base := []domain.StepName{
		domain.StepFixtures, domain.StepProvision, domain.StepInstall, domain.StepBuild, domain.StepTest,
	}

	assert.Equal(t, base, names(p.Steps(domain.MatrixEntry{}, true)))
	assert.Equal(t, base, names(p.Steps(domain.MatrixEntry{Coverage: true}, false)))

	withCoverage := p.Steps(domain.MatrixEntry{Coverage: true}, true)
	assert.Equal(t, append(base, domain.StepCoverage), names(withCoverage))
	assert.Equal(t, domain.PolicyBestEffort, withCoverage[5].Policy)
	for _, d := range withCoverage[:5] {
		assert.Equal(t, domain.PolicyFatal, d.Policy)
	}

	p.Commands.Coverage = nil
	assert.Equal(t, base, names(p.Steps(domain.MatrixEntry{Coverage: true}, true)))
}
