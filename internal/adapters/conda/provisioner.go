package conda

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultBinary is the conda executable used unless STAGE_CONDA overrides it.
const DefaultBinary = "conda"

// Provisioner implements ports.EnvironmentProvisioner with `conda create`.
type Provisioner struct {
	executor ports.Executor
	binary   string
}

// NewProvisioner creates a Provisioner running binary through the executor.
func NewProvisioner(executor ports.Executor, binary string) *Provisioner {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Provisioner{executor: executor, binary: binary}
}

// Provision creates a fresh environment at spec.Prefix holding only the pinned interpreter.
func (p *Provisioner) Provision(
	ctx context.Context, spec domain.EnvironmentSpec, out io.Writer,
) (*domain.Environment, error) {
	if _, err := os.Stat(spec.Prefix); err == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrEnvironmentExists, spec.Prefix), "entry", spec.Name)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, zerr.With(errors.Join(domain.ErrProvisionFailed, err), "entry", spec.Name)
	}

	if err := os.MkdirAll(filepath.Dir(spec.Prefix), domain.DirPerm); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrProvisionFailed, err), "entry", spec.Name)
	}

	pkg := spec.InterpreterPackage
	if pkg == "" {
		pkg = domain.DefaultInterpreterPackage
	}

	args := []string{p.binary, "create", "--yes", "--quiet", "--prefix", spec.Prefix}
	args = append(args, channelArgs(spec.Channels)...)
	args = append(args, pkg+"="+spec.Interpreter)

	env := domain.NewEnvironment(spec)
	cmd := domain.Command{Args: args}
	if err := p.executor.Execute(ctx, cmd, env.Env(), out, out); err != nil {
		provisionErr := zerr.With(errors.Join(domain.ErrProvisionFailed, err), "entry", spec.Name)
		return nil, zerr.With(provisionErr, "interpreter", spec.Interpreter)
	}

	return env, nil
}

// Destroy removes the environment prefix.
func (p *Provisioner) Destroy(_ context.Context, env *domain.Environment) error {
	if env == nil {
		return nil
	}
	if err := os.RemoveAll(env.Prefix()); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove environment"), "prefix", env.Prefix())
	}
	return nil
}

// channelArgs restricts conda to the given channels, in priority order.
func channelArgs(channels []string) []string {
	args := []string{"--override-channels"}
	for _, c := range channels {
		args = append(args, "-c", c)
	}
	return args
}
