package ports

import (
	"context"
	"io"

	"go.trai.ch/stage/internal/core/domain"
)

//go:generate mockgen -source=environment.go -destination=mocks/mock_environment.go -package=mocks

// EnvironmentProvisioner creates and destroys isolated interpreter environments.
type EnvironmentProvisioner interface {
	// Provision creates a fresh environment at spec.Prefix pinned to spec.Interpreter.
	// It refuses to reuse an existing prefix.
	Provision(ctx context.Context, spec domain.EnvironmentSpec, out io.Writer) (*domain.Environment, error)

	// Destroy removes the environment.
	Destroy(ctx context.Context, env *domain.Environment) error
}

// PackageInstaller installs resolved pins into an environment.
type PackageInstaller interface {
	// Install installs the pins and returns a new descriptor recording them.
	Install(ctx context.Context, env *domain.Environment, pins []domain.Package, out io.Writer) (*domain.Environment, error)
}
