package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/stage/internal/core/domain"
)

func newEnv() *domain.Environment {
	return domain.NewEnvironment(domain.EnvironmentSpec{
		Name:        "py2.7",
		Interpreter: "2.7",
		Prefix:      "/work/env",
		Channels:    []string{"conda-forge", "defaults"},
		Variables:   map[string]string{"PYTHONIOENCODING": "utf-8"},
	})
}

func TestEnvironment_Accessors(t *testing.T) {
	env := newEnv()

	assert.Equal(t, "py2.7", env.Name())
	assert.Equal(t, "2.7", env.Interpreter())
	assert.Equal(t, "/work/env", env.Prefix())
	assert.Equal(t, "/work/env/bin", env.BinDir())
	assert.Equal(t, "/work/env/bin/python", env.Python())
	assert.Len(t, env.ID(), 64)
	assert.Empty(t, env.Packages())
}

func TestEnvironment_Immutable(t *testing.T) {
	env := newEnv()
	id := env.ID()

	channels := env.Channels()
	channels[0] = "mutated"
	vars := env.Variables()
	vars["PYTHONIOENCODING"] = "latin-1"

	assert.Equal(t, []string{"conda-forge", "defaults"}, env.Channels())
	assert.Equal(t, "utf-8", env.Variables()["PYTHONIOENCODING"])
	assert.Equal(t, id, env.ID())
}

func TestEnvironment_WithPackages(t *testing.T) {
	env := newEnv()
	installed := env.WithPackages(
		domain.Package{Name: "numpy", Version: "1.11.1", Channel: "conda-forge"},
		domain.Package{Name: "yt", Version: "3.3.5", Channel: "conda-forge"},
	)

	assert.Empty(t, env.Packages(), "original descriptor is untouched")
	assert.Len(t, installed.Packages(), 2)
	assert.NotEqual(t, env.ID(), installed.ID())

	upgraded := installed.WithPackages(domain.Package{Name: "numpy", Version: "1.12.0", Channel: "defaults"})
	assert.Len(t, upgraded.Packages(), 2)
	assert.Equal(t, "1.12.0", upgraded.Packages()[0].Version)
	assert.Equal(t, "1.11.1", installed.Packages()[0].Version)
}

func TestEnvironment_WithVariable(t *testing.T) {
	env := newEnv()
	next := env.WithVariable("MPLBACKEND", "agg")

	assert.NotContains(t, env.Variables(), "MPLBACKEND")
	assert.Equal(t, "agg", next.Variables()["MPLBACKEND"])
	assert.NotEqual(t, env.ID(), next.ID())
}

func TestEnvironment_Env(t *testing.T) {
	env := newEnv().WithVariable("A_FIRST", "1")
	assert.Equal(t, []string{
		"A_FIRST=1",
		"CONDA_PREFIX=/work/env",
		"PATH=/work/env/bin",
		"PYTHONIOENCODING=utf-8",
	}, env.Env())
}

func TestPackage_Spec(t *testing.T) {
	assert.Equal(t, "numpy==1.11.1", domain.Package{Name: "numpy", Version: "1.11.1"}.Spec())
}
