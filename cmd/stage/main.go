// Package main is the entry point for the stage CI environment builder.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/stage/cmd/stage/commands"
	"go.trai.ch/stage/internal/adapters/postgres"
	"go.trai.ch/stage/internal/app"
	"go.trai.ch/stage/internal/core/domain"
	_ "go.trai.ch/stage/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, defaultProvider))
}

// defaultProvider builds the components from the registered Graft nodes.
// The cleanup closes the Postgres pool when the job-record mirror is enabled.
func defaultProvider(ctx context.Context) (*app.Components, func(), error) {
	c, results, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		return nil, func() {}, err
	}
	cleanup := func() {
		if pg, err := graft.Result[*postgres.Store](results); err == nil {
			_ = pg.Close()
		}
	}
	return c, cleanup, nil
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
	opts ...func(*app.App),
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	defer cleanup()

	for _, opt := range opts {
		opt(components.App)
	}

	// 2. Interface - CLI
	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		// Entry failures are already reported by the run summary.
		if errors.Is(err, domain.ErrJobFailed) {
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
