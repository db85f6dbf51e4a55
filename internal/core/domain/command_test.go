package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/stage/internal/core/domain"
)

func TestExpandArgs(t *testing.T) {
	args := []string{"pytest", "--local-dir={fixtures}", "--answer-name={answer_name}", "{unknown}"}
	got := domain.ExpandArgs(args, map[string]string{
		"fixtures":    "/work/fixtures",
		"answer_name": "pyxsim_answers",
	})

	assert.Equal(t, []string{
		"pytest",
		"--local-dir=/work/fixtures",
		"--answer-name=pyxsim_answers",
		"{unknown}",
	}, got)
	assert.Equal(t, "--local-dir={fixtures}", args[1], "input is not modified")
}

func TestCommand_String(t *testing.T) {
	c := domain.Command{Args: []string{"python", "-m", "pip", "install", "-e", "."}}
	assert.Equal(t, "python -m pip install -e .", c.String())
}
