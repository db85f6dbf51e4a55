// Package matrix runs every matrix entry of a job through its pipeline.
package matrix

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/core/ports"
	"go.trai.ch/stage/internal/engine/pipeline"
	"go.trai.ch/stage/internal/engine/resolve"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Options control a matrix run.
type Options struct {
	// RunID namespaces the per-entry working directories.
	RunID string

	// Parallelism is the number of entries that may run at once. Values below 1 mean 1.
	Parallelism int

	// Coverage enables the coverage step for entries that request it.
	Coverage bool

	// KeepEnv leaves environments in place after the run.
	KeepEnv bool

	// KeepFixtures leaves extracted fixtures in place after the run.
	KeepFixtures bool
}

// Runner executes matrix entries. Entries share no mutable state: each gets its own
// working directory, fixture root and environment prefix.
type Runner struct {
	executor    ports.Executor
	fetcher     ports.FixtureFetcher
	extractor   ports.ArchiveExtractor
	provisioner ports.EnvironmentProvisioner
	installer   ports.PackageInstaller
	resolver    *resolve.Resolver
	tracer      ports.Tracer
	now         func() time.Time
}

// NewRunner creates a new Runner.
func NewRunner(
	executor ports.Executor,
	fetcher ports.FixtureFetcher,
	extractor ports.ArchiveExtractor,
	provisioner ports.EnvironmentProvisioner,
	installer ports.PackageInstaller,
	resolver *resolve.Resolver,
	tracer ports.Tracer,
) *Runner {
	return &Runner{
		executor:    executor,
		fetcher:     fetcher,
		extractor:   extractor,
		provisioner: provisioner,
		installer:   installer,
		resolver:    resolver,
		tracer:      tracer,
		now:         time.Now,
	}
}

// Run executes every entry and returns one report per entry, in input order.
// A failing entry never stops or cancels the others.
func (r *Runner) Run(
	ctx context.Context, project *domain.Project, entries []domain.MatrixEntry, opts Options,
) []domain.EntryReport {
	plan := Plan(project, entries, opts.Coverage)
	names, steps := planSummary(plan)
	r.tracer.EmitPlan(ctx, names, steps)

	reports := make([]domain.EntryReport, len(plan))

	var g errgroup.Group
	g.SetLimit(max(opts.Parallelism, 1))
	for i, p := range plan {
		g.Go(func() error {
			reports[i] = r.runEntry(ctx, project, p, opts)
			return nil
		})
	}
	_ = g.Wait()

	return reports
}

func (r *Runner) runEntry(
	ctx context.Context, project *domain.Project, p PlannedEntry, opts Options,
) domain.EntryReport {
	name := p.Entry.Name.String()
	ctx, span := r.tracer.Start(ctx, name)
	defer span.End()

	span.SetAttribute("stage.entry", name)
	span.SetAttribute("stage.interpreter", p.Entry.Interpreter)

	run := &entryRun{
		runner:  r,
		project: project,
		entry:   p.Entry,
		workDir: domain.EntryWorkDir(project.Root, opts.RunID, name),
	}

	report := domain.EntryReport{Entry: p.Entry, Started: r.now()}

	steps := make([]pipeline.Step, 0, len(p.Steps))
	for _, decl := range p.Steps {
		steps = append(steps, pipeline.Step{Name: decl.Name, Policy: decl.Policy, Run: run.stepFunc(decl.Name)})
	}

	pl, err := pipeline.New(r.tracer, steps...)
	if err != nil {
		span.RecordError(err)
		report.Verdict = domain.VerdictFail
		report.Finished = r.now()
		return report
	}

	res := pl.Run(ctx, nil)

	report.Steps = res.Steps
	report.Environment = res.Environment
	report.Resolution = run.resolution
	report.Fixtures = run.fixtures
	report.Verdict = domain.DecideVerdict(res.Steps)

	if err := res.Err(); err != nil {
		span.RecordError(err)
	}
	span.SetAttribute("stage.verdict", string(report.Verdict))

	if err := run.cleanup(context.WithoutCancel(ctx), res.Environment, opts); err != nil {
		_, _ = fmt.Fprintf(span, "cleanup failed: %v\n", err)
	}

	report.Finished = r.now()
	return report
}

// entryRun holds the state of one entry while its pipeline runs.
// It is only touched from the goroutine running that pipeline.
type entryRun struct {
	runner  *Runner
	project *domain.Project
	entry   domain.MatrixEntry
	workDir string

	resolution *domain.Resolution
	fixtures   []domain.FixtureSet
}

func (e *entryRun) prefix() string       { return filepath.Join(e.workDir, domain.EnvDirName) }
func (e *entryRun) fixturesRoot() string { return filepath.Join(e.workDir, domain.FixturesDirName) }
func (e *entryRun) downloadsDir() string { return filepath.Join(e.workDir, domain.DownloadsDirName) }

func (e *entryRun) stepFunc(name domain.StepName) pipeline.StepFunc {
	switch name {
	case domain.StepFixtures:
		return e.fetchFixtures
	case domain.StepProvision:
		return e.provision
	case domain.StepInstall:
		return e.install
	case domain.StepBuild:
		return e.command(name, e.project.Commands.Build)
	case domain.StepTest:
		return e.command(name, e.project.Commands.Test)
	case domain.StepCoverage:
		return e.command(name, e.project.Commands.Coverage)
	default:
		return func(context.Context, *domain.Environment, io.Writer) (*domain.Environment, error) {
			return nil, zerr.With(zerr.New("unknown step"), "step", string(name))
		}
	}
}

// fetchFixtures downloads and extracts every fixture archive into the entry's fixture root.
func (e *entryRun) fetchFixtures(
	ctx context.Context, _ *domain.Environment, out io.Writer,
) (*domain.Environment, error) {
	if err := domain.ValidateFixtures(e.project.Fixtures); err != nil {
		return nil, err
	}

	root := e.fixturesRoot()
	if err := os.MkdirAll(root, domain.DirPerm); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrFixtureExtractFailed, err), "dir", root)
	}

	for _, f := range e.project.Fixtures {
		format, err := f.Format()
		if err != nil {
			return nil, err
		}

		archive := filepath.Join(e.downloadsDir(), f.FileName())
		_, _ = fmt.Fprintf(out, "fetching %s from %s\n", f.Name, f.URL)
		if err := e.runner.fetcher.Fetch(ctx, f, archive); err != nil {
			return nil, err
		}

		dest := filepath.Join(root, filepath.FromSlash(f.ExtractDir()))
		set, err := e.runner.extractor.Extract(ctx, archive, format, dest)
		if err != nil {
			return nil, zerr.With(err, "fixture", f.Name)
		}
		e.fixtures = append(e.fixtures, set)
		_, _ = fmt.Fprintf(out, "extracted %s: %d files into %s\n", f.Name, len(set.Files), f.ExtractDir())
	}
	return nil, nil
}

// provision creates the entry's environment pinned to its interpreter and exports the fixture root.
func (e *entryRun) provision(
	ctx context.Context, _ *domain.Environment, out io.Writer,
) (*domain.Environment, error) {
	spec := domain.EnvironmentSpec{
		Name:               e.entry.Name.String(),
		Interpreter:        e.entry.Interpreter,
		InterpreterPackage: e.project.Manifest.InterpreterPackage(),
		Prefix:             e.prefix(),
		Channels:           e.project.ChannelList(),
		Variables:          e.project.EntryVariables(e.entry),
	}
	env, err := e.runner.provisioner.Provision(ctx, spec, out)
	if err != nil {
		return nil, err
	}
	return env.WithVariable(domain.FixturesVariable, e.fixturesRoot()), nil
}

// install resolves the manifest for the entry's interpreter and installs the pins.
func (e *entryRun) install(
	ctx context.Context, env *domain.Environment, out io.Writer,
) (*domain.Environment, error) {
	if env == nil {
		return nil, domain.ErrEnvironmentMissing
	}

	res, err := e.runner.resolver.Resolve(ctx, e.project.Manifest, e.entry.Interpreter, e.project.ChannelList())
	if err != nil {
		return nil, err
	}
	e.resolution = res

	for _, d := range res.Degraded {
		_, _ = fmt.Fprintln(out, d.String())
	}

	return e.runner.installer.Install(ctx, env, res.Pins(), out)
}

// command runs a templated command inside the environment from the project source.
func (e *entryRun) command(name domain.StepName, template []string) pipeline.StepFunc {
	return func(ctx context.Context, env *domain.Environment, out io.Writer) (*domain.Environment, error) {
		if env == nil {
			return nil, domain.ErrEnvironmentMissing
		}

		args := domain.ExpandArgs(template, e.templateVars(env))
		if len(args) == 0 {
			return nil, zerr.Wrap(domain.ErrEmptyCommand, string(name))
		}

		cmd := domain.Command{Args: args, Dir: e.project.Source}
		_, _ = fmt.Fprintf(out, "$ %s\n", cmd)
		return nil, e.runner.executor.Execute(ctx, cmd, env.Env(), out, out)
	}
}

func (e *entryRun) templateVars(env *domain.Environment) map[string]string {
	return map[string]string{
		"fixtures":    e.fixturesRoot(),
		"answer_name": e.project.AnswerName,
		"python":      env.Python(),
		"prefix":      env.Prefix(),
		"entry":       e.entry.Name.String(),
		"source":      e.project.Source,
		"interpreter": e.entry.Interpreter,
	}
}

// cleanup removes what the entry created unless the options keep it.
func (e *entryRun) cleanup(ctx context.Context, env *domain.Environment, opts Options) error {
	var errs []error

	if err := os.RemoveAll(e.downloadsDir()); err != nil {
		errs = append(errs, err)
	}
	switch {
	case opts.KeepEnv:
	case env != nil:
		if err := e.runner.provisioner.Destroy(ctx, env); err != nil {
			errs = append(errs, err)
		}
	default:
		// A failed or cancelled provision leaves no descriptor, but may leave a partial prefix.
		if err := os.RemoveAll(e.prefix()); err != nil {
			errs = append(errs, err)
		}
	}
	if !opts.KeepFixtures {
		if err := os.RemoveAll(e.fixturesRoot()); err != nil {
			errs = append(errs, err)
		}
	}

	// Remove fails while anything is kept.
	if os.Remove(e.workDir) == nil {
		_ = os.Remove(filepath.Dir(e.workDir))
	}

	if len(errs) > 0 {
		return zerr.With(errors.Join(errs...), "entry", e.entry.Name.String())
	}
	return nil
}
