// Package app implements the application layer for stage.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.trai.ch/stage/internal/adapters/linear"
	"go.trai.ch/stage/internal/adapters/telemetry"
	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/core/ports"
	"go.trai.ch/stage/internal/engine/matrix"
	"go.trai.ch/stage/internal/engine/resolve"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	logger       ports.Logger
	store        ports.JobStore
	index        ports.ChannelIndex
	fetcher      ports.FixtureFetcher
	extractor    ports.ArchiveExtractor
	provisioner  ports.EnvironmentProvisioner
	installer    ports.PackageInstaller

	stdout   io.Writer
	stderr   io.Writer
	newRunID func() string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	log ports.Logger,
	store ports.JobStore,
	index ports.ChannelIndex,
	fetcher ports.FixtureFetcher,
	extractor ports.ArchiveExtractor,
	provisioner ports.EnvironmentProvisioner,
	installer ports.PackageInstaller,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		logger:       log,
		store:        store,
		index:        index,
		fetcher:      fetcher,
		extractor:    extractor,
		provisioner:  provisioner,
		installer:    installer,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		newRunID:     uuid.NewString,
	}
}

// WithOutput redirects the renderer, plan and summary output.
// This is primarily used for testing.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithRunID fixes the run identifier instead of generating one.
// This is primarily used for testing.
func (a *App) WithRunID(id string) *App {
	a.newRunID = func() string { return id }
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	Only         []string
	Parallelism  int
	KeepEnv      bool
	KeepFixtures bool
	NoCoverage   bool
}

// Run executes the selected matrix entries and persists one job record per entry.
// It returns an error wrapping domain.ErrJobFailed when any entry did not pass.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	// 1. Load the project
	project, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	// 2. Select entries
	entries, err := project.Matrix.Select(opts.Only...)
	if err != nil {
		return err
	}

	// 3. Initialize renderer and telemetry
	renderer := linear.NewRenderer(a.stdout, a.stderr)
	tp := telemetry.NewTracerProvider(renderer)
	defer func() {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
	}()
	tracer := telemetry.NewOTelTracer(tp, "stage").WithRenderer(renderer)

	// 4. Initialize the matrix runner
	runID := a.newRunID()
	runner := matrix.NewRunner(
		a.executor,
		a.fetcher,
		a.extractor,
		a.provisioner,
		a.installer,
		resolve.NewResolver(a.index),
		tracer,
	)

	// 5. Run renderer and matrix concurrently
	var reports []domain.EntryReport
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() error {
		defer func() {
			_ = renderer.Stop()
		}()
		reports = runner.Run(gctx, project, entries, matrix.Options{
			RunID:        runID,
			Parallelism:  opts.Parallelism,
			Coverage:     !opts.NoCoverage,
			KeepEnv:      opts.KeepEnv,
			KeepFixtures: opts.KeepFixtures,
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	// 6. Persist and summarize
	a.persist(project, runID, reports)

	if err := writeSummary(a.stdout, reports); err != nil {
		a.logger.Warn(fmt.Sprintf("failed to write summary: %v", err))
	}

	failed := 0
	for _, r := range reports {
		if r.Verdict != domain.VerdictPass {
			failed++
		}
	}
	if failed > 0 {
		return zerr.With(
			zerr.Wrap(domain.ErrJobFailed, fmt.Sprintf("%d of %d matrix entries failed", failed, len(reports))),
			"run_id", runID,
		)
	}
	return nil
}

// persist stores the job records. Failures are logged and never change the outcome.
func (a *App) persist(project *domain.Project, runID string, reports []domain.EntryReport) {
	for _, r := range reports {
		if err := a.store.Put(project.Root, r.Record(runID, project.Name)); err != nil {
			a.logger.Warn(fmt.Sprintf("failed to persist job record for %s: %v", r.Entry.Name, err))
		}
	}
}

// PlanOptions configuration for the Plan method.
type PlanOptions struct {
	Only       []string
	NoCoverage bool
}

// Plan prints the steps each selected entry would run.
func (a *App) Plan(_ context.Context, opts PlanOptions) error {
	project, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	entries, err := project.Matrix.Select(opts.Only...)
	if err != nil {
		return err
	}

	return matrix.WritePlan(a.stdout, project, matrix.Plan(project, entries, !opts.NoCoverage))
}
