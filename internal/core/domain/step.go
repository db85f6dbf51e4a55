package domain

import (
	"strings"
	"time"
)

// StepName identifies a step of the per-entry pipeline.
type StepName string

const (
	// StepFixtures downloads and extracts fixture archives.
	StepFixtures StepName = "fixtures"
	// StepProvision creates the isolated environment.
	StepProvision StepName = "provision"
	// StepInstall resolves and installs dependencies.
	StepInstall StepName = "install"
	// StepBuild installs the project in development mode.
	StepBuild StepName = "build"
	// StepTest runs the test command.
	StepTest StepName = "test"
	// StepCoverage reports coverage.
	StepCoverage StepName = "coverage"
)

// StepPolicy decides what a step failure means for the entry.
type StepPolicy string

const (
	// PolicyFatal steps abort the entry on failure.
	PolicyFatal StepPolicy = "fatal"
	// PolicyBestEffort steps are logged on failure and never change the verdict.
	PolicyBestEffort StepPolicy = "best-effort"
)

// StepStatus represents the lifecycle state of a step.
type StepStatus string

const (
	// StepStatusPending indicates the step has not started.
	StepStatusPending StepStatus = "pending"
	// StepStatusRunning indicates the step is executing.
	StepStatusRunning StepStatus = "running"
	// StepStatusCompleted indicates the step succeeded.
	StepStatusCompleted StepStatus = "completed"
	// StepStatusFailed indicates the step failed.
	StepStatusFailed StepStatus = "failed"
	// StepStatusSkipped indicates the step did not run because an earlier fatal step failed.
	StepStatusSkipped StepStatus = "skipped"
)

// IsTerminal checks if a status is a terminal state (Completed, Failed, Skipped).
func (s StepStatus) IsTerminal() bool {
	switch s {
	case StepStatusCompleted, StepStatusFailed, StepStatusSkipped:
		return true
	default:
		return false
	}
}

// NormalizeStepStatus converts a string to a StepStatus, defaulting to pending if unknown.
func NormalizeStepStatus(s string) StepStatus {
	switch strings.ToLower(s) {
	case string(StepStatusRunning):
		return StepStatusRunning
	case string(StepStatusCompleted):
		return StepStatusCompleted
	case string(StepStatusFailed):
		return StepStatusFailed
	case string(StepStatusSkipped):
		return StepStatusSkipped
	default:
		return StepStatusPending
	}
}

// StepResult is the outcome of one step.
type StepResult struct {
	Step     StepName
	Policy   StepPolicy
	Status   StepStatus
	Err      error
	Started  time.Time
	Finished time.Time
}

// Duration returns how long the step ran. Steps that never started report zero.
func (r StepResult) Duration() time.Duration {
	if r.Started.IsZero() || r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

// Verdict is the outcome of a matrix entry.
type Verdict string

const (
	// VerdictPass means every fatal step completed.
	VerdictPass Verdict = "pass"
	// VerdictFail means a fatal step failed or was skipped.
	VerdictFail Verdict = "fail"
)

// DecideVerdict derives the entry verdict from its step results.
// Best-effort steps are ignored.
func DecideVerdict(results []StepResult) Verdict {
	if len(results) == 0 {
		return VerdictFail
	}
	for _, r := range results {
		if r.Policy == PolicyBestEffort {
			continue
		}
		if r.Status != StepStatusCompleted {
			return VerdictFail
		}
	}
	return VerdictPass
}
