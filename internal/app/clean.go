package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/platform/env"
	"go.trai.ch/zerr"
)

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// Records removes the local job record store.
	Records bool

	// Tools removes the channel index cache and any kept run directories.
	Tools bool
}

// Clean removes stage state based on the provided options.
// Paths are taken relative to the project root when a project is found, else the working directory.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	root := "."
	if project, err := a.configLoader.Load("."); err == nil {
		root = project.Root
	}

	var errs error

	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(errors.Join(domain.ErrCleanFailed, err), "path", path))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	if options.Records {
		remove(filepath.Join(root, domain.DefaultStorePath()), "job records")
	}

	if options.Tools {
		remove(env.String("STAGE_CHANNEL_CACHE", domain.DefaultChannelCachePath()), "channel index cache")
		remove(filepath.Join(root, domain.DefaultRunsPath()), "run directories")
	}

	return errs
}
