package domain

import (
	"errors"
	"maps"
	"slices"
	"strings"

	version "github.com/hashicorp/go-version"
	"go.trai.ch/zerr"
)

// MatrixEntry is one interpreter configuration the job runs against.
type MatrixEntry struct {
	// Name identifies the entry. It defaults to "py<interpreter>".
	Name Ident

	// Interpreter is the interpreter version series (e.g. "2.7", "3.5").
	Interpreter string

	// Variables are exported to every step of this entry only.
	Variables map[string]string

	// Coverage enables the best-effort coverage step for this entry.
	Coverage bool
}

// DefaultEntryName returns the name an entry gets when none is declared.
func DefaultEntryName(interpreter string) string {
	return "py" + interpreter
}

// Matrix is the ordered list of entries of a job.
type Matrix struct {
	entries []MatrixEntry
}

// NewMatrix validates the entries and returns a matrix preserving their order.
func NewMatrix(entries ...MatrixEntry) (*Matrix, error) {
	seen := make(map[Ident]struct{}, len(entries))
	list := make([]MatrixEntry, 0, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.Interpreter) == "" {
			return nil, zerr.Wrap(ErrInvalidProject, "matrix entry has no interpreter")
		}
		if _, err := version.NewVersion(entry.Interpreter); err != nil {
			return nil, zerr.With(errors.Join(ErrInvalidVersion, err), "interpreter", entry.Interpreter)
		}
		if entry.Name.IsZero() {
			entry.Name = NewIdent(DefaultEntryName(entry.Interpreter))
		}
		if !IsPathElement(entry.Name.String()) {
			err := zerr.Wrap(ErrInvalidProject, "matrix entry name must be a plain directory name")
			return nil, zerr.With(err, "entry", entry.Name.String())
		}
		if _, dup := seen[entry.Name]; dup {
			return nil, zerr.With(zerr.Wrap(ErrDuplicateEntry, entry.Name.String()), "entry", entry.Name.String())
		}
		seen[entry.Name] = struct{}{}
		entry.Variables = maps.Clone(entry.Variables)
		list = append(list, entry)
	}
	return &Matrix{entries: list}, nil
}

// Entries returns the entries in declaration order.
func (m *Matrix) Entries() []MatrixEntry {
	return slices.Clone(m.entries)
}

// Len returns the number of entries.
func (m *Matrix) Len() int {
	return len(m.entries)
}

// Select returns the named entries in declaration order. No names selects every entry.
func (m *Matrix) Select(names ...string) ([]MatrixEntry, error) {
	if len(names) == 0 {
		if len(m.entries) == 0 {
			return nil, ErrNoEntries
		}
		return m.Entries(), nil
	}
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	selected := make([]MatrixEntry, 0, len(names))
	for _, entry := range m.entries {
		if wanted[entry.Name.String()] {
			selected = append(selected, entry)
			delete(wanted, entry.Name.String())
		}
	}
	if len(wanted) > 0 {
		missing := slices.Sorted(maps.Keys(wanted))
		return nil, zerr.With(zerr.Wrap(ErrEntryNotFound, "unknown entries"), "entry", strings.Join(missing, ","))
	}
	return selected, nil
}
