package domain

import "time"

// StepRecord is the persisted form of a StepResult.
type StepRecord struct {
	Step       StepName   `json:"step"`
	Policy     StepPolicy `json:"policy"`
	Status     StepStatus `json:"status"`
	Error      string     `json:"error,omitzero"`
	DurationMS int64      `json:"duration_ms,omitzero"`
}

// JobRecord is the persisted outcome of one matrix entry within a run.
type JobRecord struct {
	RunID       string       `json:"run_id"`
	Project     string       `json:"project"`
	Entry       string       `json:"entry"`
	Interpreter string       `json:"interpreter"`
	Verdict     Verdict      `json:"verdict"`
	Steps       []StepRecord `json:"steps"`
	Packages    []Package    `json:"packages,omitzero"`
	Degraded    []string     `json:"degraded,omitzero"`
	Fixtures    string       `json:"fixtures_fingerprint,omitzero"`
	EnvID       string       `json:"env_id,omitzero"`
	Started     time.Time    `json:"started,omitzero"`
	Finished    time.Time    `json:"finished,omitzero"`
}

// EntryReport is the in-memory outcome of one matrix entry.
type EntryReport struct {
	Entry       MatrixEntry
	Steps       []StepResult
	Verdict     Verdict
	Resolution  *Resolution
	Fixtures    []FixtureSet
	Environment *Environment
	Started     time.Time
	Finished    time.Time
}

// Failed returns the first failed fatal step, if any.
func (r EntryReport) Failed() (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Policy == PolicyFatal && s.Status == StepStatusFailed {
			return s, true
		}
	}
	return StepResult{}, false
}

// Record converts the report into its persisted form.
func (r EntryReport) Record(runID, project string) JobRecord {
	rec := JobRecord{
		RunID:       runID,
		Project:     project,
		Entry:       r.Entry.Name.String(),
		Interpreter: r.Entry.Interpreter,
		Verdict:     r.Verdict,
		Steps:       make([]StepRecord, 0, len(r.Steps)),
		Fixtures:    FingerprintSets(r.Fixtures),
		Started:     r.Started,
		Finished:    r.Finished,
	}
	for _, s := range r.Steps {
		step := StepRecord{
			Step:       s.Step,
			Policy:     s.Policy,
			Status:     s.Status,
			DurationMS: s.Duration().Milliseconds(),
		}
		if s.Err != nil && s.Status == StepStatusFailed {
			step.Error = s.Err.Error()
		}
		rec.Steps = append(rec.Steps, step)
	}
	if r.Environment != nil {
		rec.Packages = r.Environment.Packages()
		rec.EnvID = r.Environment.ID()
	}
	if r.Resolution != nil {
		for _, d := range r.Resolution.Degraded {
			rec.Degraded = append(rec.Degraded, d.Name)
		}
	}
	return rec
}

// FingerprintSets combines the fingerprints of several fixture sets in order.
func FingerprintSets(sets []FixtureSet) string {
	if len(sets) == 0 {
		return ""
	}
	parts := make(map[string]string, len(sets))
	for _, s := range sets {
		parts[s.Root] = s.Fingerprint
	}
	return GenerateEnvID(parts)
}
