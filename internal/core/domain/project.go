package domain

import (
	"maps"
	"slices"
)

// Commands are the argv templates of the command-running steps.
type Commands struct {
	Build    []string
	Test     []string
	Coverage []string
}

// Project is the validated form of stage.yaml.
type Project struct {
	// Name identifies the project in job records.
	Name string

	// Root is the absolute directory containing stage.yaml.
	Root string

	// Source is the absolute directory of the package being built.
	Source string

	// AnswerName is the answer-test identifier substituted for {answer_name}.
	AnswerName string

	// Channels are the package channels in priority order.
	Channels []string

	// Manifest declares the dependencies to resolve.
	Manifest Manifest

	// Fixtures are the data archives fetched before every entry.
	Fixtures []FixtureArchive

	// Matrix lists the interpreter configurations to run.
	Matrix *Matrix

	// Commands are the build, test and coverage command templates.
	Commands Commands

	// Variables are exported to every step of every entry.
	Variables map[string]string
}

// EntryVariables merges project variables, the encoding override and the entry's variables.
// Entry variables win over project variables.
func (p *Project) EntryVariables(entry MatrixEntry) map[string]string {
	vars := map[string]string{EncodingVariable: DefaultEncoding}
	maps.Copy(vars, p.Variables)
	maps.Copy(vars, entry.Variables)
	return vars
}

// Steps returns the steps an entry runs, in order, with their policies.
// Coverage is included only when the entry enables it and a command is configured.
func (p *Project) Steps(entry MatrixEntry, coverage bool) []StepDecl {
	steps := []StepDecl{
		{Name: StepFixtures, Policy: PolicyFatal},
		{Name: StepProvision, Policy: PolicyFatal},
		{Name: StepInstall, Policy: PolicyFatal},
		{Name: StepBuild, Policy: PolicyFatal},
		{Name: StepTest, Policy: PolicyFatal},
	}
	if coverage && entry.Coverage && len(p.Commands.Coverage) > 0 {
		steps = append(steps, StepDecl{Name: StepCoverage, Policy: PolicyBestEffort})
	}
	return steps
}

// StepDecl names a step and its failure policy.
type StepDecl struct {
	Name   StepName
	Policy StepPolicy
}

// ChannelList returns a copy of the project's channels.
func (p *Project) ChannelList() []string {
	return slices.Clone(p.Channels)
}
