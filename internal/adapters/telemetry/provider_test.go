package telemetry_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stage/internal/adapters/telemetry"
	"go.trai.ch/stage/internal/core/ports"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Tracer = (*telemetry.OTelTracer)(nil)
	var _ ports.Span = (*telemetry.OTelSpan)(nil)
}

func TestOTelTracer_StreamsOutputBeforeCompletion(t *testing.T) {
	renderer := &recordingRenderer{}
	tp := telemetry.NewTracerProvider(renderer)
	tracer := telemetry.NewOTelTracer(tp, "stage").WithRenderer(renderer)

	ctx, entry := tracer.Start(context.Background(), "py2.7")
	_, step := tracer.Start(ctx, "test")

	_, err := step.Write([]byte("collected 12 items\n"))
	require.NoError(t, err)
	_, err = step.Write([]byte("12 passed\n"))
	require.NoError(t, err)

	step.RecordError(errors.New("exit status 1"))
	step.End()
	entry.End()

	events, logs, completes := renderer.snapshot()
	require.GreaterOrEqual(t, len(events), 5)
	assert.Equal(t, []string{"start py2.7", "start   test"}, events[:2])
	assert.Equal(t, []string{"log", "complete", "complete"}, events[len(events)-3:])
	assert.Equal(t, "collected 12 items\n12 passed\n", strings.Join(logs, ""))
	require.Len(t, completes, 2)
	assert.EqualError(t, completes[0], "exit status 1")
	assert.NoError(t, completes[1])
}

func TestOTelTracer_EmitPlan(t *testing.T) {
	renderer := &recordingRenderer{}
	tracer := telemetry.NewOTelTracer(telemetry.NewTracerProvider(nil), "stage").WithRenderer(renderer)

	ctx, span := tracer.Start(context.Background(), "run")
	tracer.EmitPlan(ctx, []string{"py2.7", "py3.5"}, map[string][]string{"py2.7": {"fixtures"}})
	span.End()

	renderer.mu.Lock()
	defer renderer.mu.Unlock()
	assert.Equal(t, [][]string{{"py2.7", "py3.5"}}, renderer.plans)
}

func TestOTelTracer_NoRenderer(t *testing.T) {
	tracer := telemetry.NewOTelTracer(nil, "test")
	ctx := context.Background()

	tracer.EmitPlan(ctx, []string{"py3.5"}, nil)

	_, span := tracer.Start(ctx, "py3.5")
	n, err := span.Write([]byte("log"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	span.RecordError(nil)
	span.End()
}

type version string

func (v version) String() string { return "v" + string(v) }

func TestOTelSpan_SetAttribute(_ *testing.T) {
	tracer := telemetry.NewOTelTracer(telemetry.NewTracerProvider(nil), "test")
	_, span := tracer.Start(context.Background(), "test")

	span.SetAttribute("string", "val")
	span.SetAttribute("int", 123)
	span.SetAttribute("int64", int64(123))
	span.SetAttribute("float64", 12.34)
	span.SetAttribute("bool", true)
	span.SetAttribute("slice", []string{"a", "b"})
	span.SetAttribute("stringer", version("3.5"))
	span.SetAttribute("other", complex(1, 1))

	span.End()
}
