// Package pipeline runs the ordered steps of a single matrix entry.
package pipeline

import (
	"context"
	"io"
	"time"

	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/core/ports"
	"go.trai.ch/zerr"
)

// StepFunc performs one step. It receives the descriptor produced by the previous
// steps (nil before provisioning) and returns the descriptor later steps see.
// Returning a nil descriptor keeps the current one.
type StepFunc func(ctx context.Context, env *domain.Environment, out io.Writer) (*domain.Environment, error)

// Step is a named unit of work with a failure policy.
type Step struct {
	Name   domain.StepName
	Policy domain.StepPolicy
	Run    StepFunc
}

// Result is the outcome of a pipeline run.
type Result struct {
	// Steps holds one result per declared step, in order.
	Steps []domain.StepResult

	// Environment is the last descriptor a step produced.
	Environment *domain.Environment
}

// Err returns the error of the first failed fatal step.
func (r Result) Err() error {
	for _, s := range r.Steps {
		if s.Policy == domain.PolicyFatal && s.Status == domain.StepStatusFailed {
			return s.Err
		}
	}
	return nil
}

// Pipeline runs steps strictly in declaration order.
type Pipeline struct {
	tracer ports.Tracer
	steps  []Step
	now    func() time.Time
}

// New validates the steps and returns a pipeline.
func New(tracer ports.Tracer, steps ...Step) (*Pipeline, error) {
	seen := make(map[domain.StepName]struct{}, len(steps))
	for _, s := range steps {
		if _, dup := seen[s.Name]; dup {
			return nil, zerr.Wrap(domain.ErrDuplicateStep, string(s.Name))
		}
		seen[s.Name] = struct{}{}
	}
	return &Pipeline{
		tracer: tracer,
		steps:  steps,
		now:    time.Now,
	}, nil
}

// Run executes the steps against env.
//
// A failed fatal step, or a cancelled context, marks every remaining step skipped.
// A failed best-effort step is recorded and the pipeline carries on.
func (p *Pipeline) Run(ctx context.Context, env *domain.Environment) Result {
	res := Result{
		Steps:       make([]domain.StepResult, 0, len(p.steps)),
		Environment: env,
	}

	halted := false
	for _, step := range p.steps {
		if halted || ctx.Err() != nil {
			halted = true
			res.Steps = append(res.Steps, domain.StepResult{
				Step:   step.Name,
				Policy: step.Policy,
				Status: domain.StepStatusSkipped,
				Err:    domain.ErrStepSkipped,
			})
			continue
		}

		result, next := p.runStep(ctx, step, res.Environment)
		res.Steps = append(res.Steps, result)
		if next != nil {
			res.Environment = next
		}
		if result.Status == domain.StepStatusFailed && step.Policy == domain.PolicyFatal {
			halted = true
		}
	}

	return res
}

func (p *Pipeline) runStep(
	ctx context.Context, step Step, env *domain.Environment,
) (domain.StepResult, *domain.Environment) {
	ctx, span := p.tracer.Start(ctx, string(step.Name))
	defer span.End()

	span.SetAttribute("stage.step", string(step.Name))
	span.SetAttribute("stage.policy", string(step.Policy))

	result := domain.StepResult{
		Step:    step.Name,
		Policy:  step.Policy,
		Status:  domain.StepStatusRunning,
		Started: p.now(),
	}

	next, err := step.Run(ctx, env, span)
	result.Finished = p.now()

	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		span.RecordError(err)
		result.Status = domain.StepStatusFailed
		result.Err = err
		return result, nil
	}

	result.Status = domain.StepStatusCompleted
	return result, next
}
