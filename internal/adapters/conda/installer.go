package conda

import (
	"context"
	"errors"
	"io"

	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/core/ports"
	"go.trai.ch/zerr"
)

// Installer implements ports.PackageInstaller with `conda install`.
type Installer struct {
	executor ports.Executor
	binary   string
}

// NewInstaller creates an Installer running binary through the executor.
func NewInstaller(executor ports.Executor, binary string) *Installer {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Installer{executor: executor, binary: binary}
}

// Install installs exact pins into the environment in a single transaction.
func (i *Installer) Install(
	ctx context.Context, env *domain.Environment, pins []domain.Package, out io.Writer,
) (*domain.Environment, error) {
	if env == nil {
		return nil, domain.ErrEnvironmentMissing
	}
	if len(pins) == 0 {
		return env, nil
	}

	args := []string{i.binary, "install", "--yes", "--quiet", "--prefix", env.Prefix()}
	args = append(args, channelArgs(env.Channels())...)
	for _, pin := range pins {
		args = append(args, pin.Spec())
	}

	cmd := domain.Command{Args: args}
	if err := i.executor.Execute(ctx, cmd, env.Env(), out, out); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrInstallFailed, err), "entry", env.Name())
	}

	return env.WithPackages(pins...), nil
}
