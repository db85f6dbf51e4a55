// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/stage/internal/core/domain"
)

// Executor defines the interface for running commands.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command with the specified environment.
	//
	// The env parameter contains environment variables in "KEY=VALUE" format,
	// typically rendered from an environment descriptor. A PATH entry is
	// prepended to the host PATH rather than replacing it.
	//
	// It returns an error if the command exits non-zero.
	Execute(ctx context.Context, cmd domain.Command, env []string, stdout, stderr io.Writer) error
}
