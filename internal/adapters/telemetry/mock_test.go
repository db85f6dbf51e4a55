package telemetry_test

import (
	"context"
	"sync"
	"time"
)

// recordingRenderer is a simple test double for ports.Renderer.
type recordingRenderer struct {
	mu        sync.Mutex
	events    []string
	logs      []string
	plans     [][]string
	completes []error
}

func (r *recordingRenderer) Start(_ context.Context) error { return nil }
func (r *recordingRenderer) Stop() error                   { return nil }
func (r *recordingRenderer) Wait() error                   { return nil }

func (r *recordingRenderer) OnPlanEmit(entries []string, _ map[string][]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans = append(r.plans, entries)
}

func (r *recordingRenderer) OnTaskStart(_, parentID, name string, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if parentID != "" {
		name = "  " + name
	}
	r.events = append(r.events, "start "+name)
}

func (r *recordingRenderer) OnTaskLog(_ string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "log")
	r.logs = append(r.logs, string(data))
}

func (r *recordingRenderer) OnTaskComplete(_ string, _ time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "complete")
	r.completes = append(r.completes, err)
}

func (r *recordingRenderer) snapshot() (events, logs []string, completes []error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...), append([]string(nil), r.logs...), append([]error(nil), r.completes...)
}
