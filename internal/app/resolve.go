package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/engine/resolve"
	"go.trai.ch/zerr"
)

// ResolveOptions configuration for the Resolve method.
type ResolveOptions struct {
	Only []string
}

// Resolve resolves the manifest for every selected entry and writes the lockfile.
// Nothing is written unless every entry resolves.
func (a *App) Resolve(ctx context.Context, opts ResolveOptions) error {
	project, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	entries, err := project.Matrix.Select(opts.Only...)
	if err != nil {
		return err
	}

	resolver := resolve.NewResolver(a.index)
	lock := domain.NewLockfile(project.ChannelList())

	var errs []error
	for _, entry := range entries {
		name := entry.Name.String()
		res, err := resolver.Resolve(ctx, project.Manifest, entry.Interpreter, project.ChannelList())
		if err != nil {
			errs = append(errs, zerr.With(zerr.Wrap(err, "failed to resolve "+name), "entry", name))
			continue
		}
		lock.Entries[name] = *res

		_, _ = fmt.Fprintf(a.stdout, "%s: %s\n", name, formatPins(res.Pins()))
		for _, d := range res.Degraded {
			a.logger.Warn(name + ": " + d.String())
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	path := filepath.Join(project.Root, domain.LockFileName)
	if err := writeLockfile(path, lock); err != nil {
		return zerr.With(errors.Join(domain.ErrLockfileWriteFailed, err), "path", path)
	}
	a.logger.Info("wrote " + domain.LockFileName)
	return nil
}

func formatPins(pins []domain.Package) string {
	parts := make([]string, 0, len(pins))
	for _, p := range pins {
		parts = append(parts, p.Name+" "+p.Version)
	}
	return strings.Join(parts, ", ")
}

// writeLockfile writes the lockfile atomically.
func writeLockfile(path string, lock *domain.Lockfile) error {
	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".lock-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
