package domain

import (
	"errors"
	"strings"

	version "github.com/hashicorp/go-version"
	"go.trai.ch/zerr"
)

// DependencyRecord declares a package the project needs before it can be built or tested.
type DependencyRecord struct {
	// Name is the package name as published in the channels (e.g. "numpy").
	Name Ident

	// MinVersion is the lowest acceptable version. Empty accepts any published version.
	MinVersion string

	// Optional records may be absent; their absence degrades a feature instead of failing the job.
	Optional bool

	// Purpose describes what the package is for, reported when an optional record is missing.
	Purpose string

	// Interpreters restricts the record to interpreter versions matching this constraint
	// (e.g. ">= 3.0"). Empty applies to every interpreter.
	Interpreters string
}

// Validate checks the record's name, minimum version and interpreter constraint.
func (r DependencyRecord) Validate() error {
	name := r.Name.String()
	if strings.TrimSpace(name) == "" {
		return zerr.Wrap(ErrInvalidDependency, "name is required")
	}
	if r.MinVersion != "" {
		if _, err := version.NewVersion(r.MinVersion); err != nil {
			err = zerr.With(errors.Join(ErrInvalidVersion, err), "package", name)
			return zerr.With(err, "min_version", r.MinVersion)
		}
	}
	if r.Interpreters != "" {
		if _, err := version.NewConstraint(r.Interpreters); err != nil {
			err = zerr.With(errors.Join(ErrInvalidVersion, err), "package", name)
			return zerr.With(err, "interpreters", r.Interpreters)
		}
	}
	return nil
}

// AppliesTo reports whether the record is required for the given interpreter version.
func (r DependencyRecord) AppliesTo(interpreter string) (bool, error) {
	if r.Interpreters == "" {
		return true, nil
	}
	constraint, err := version.NewConstraint(r.Interpreters)
	if err != nil {
		return false, zerr.With(errors.Join(ErrInvalidVersion, err), "interpreters", r.Interpreters)
	}
	v, err := version.NewVersion(interpreter)
	if err != nil {
		return false, zerr.With(errors.Join(ErrInvalidVersion, err), "interpreter", interpreter)
	}
	return constraint.Check(v), nil
}

// Accepts reports whether a published version satisfies the record's minimum.
// Unparseable versions are never accepted.
func (r DependencyRecord) Accepts(published string) bool {
	v, err := version.NewVersion(published)
	if err != nil {
		return false
	}
	if r.MinVersion == "" {
		return true
	}
	minimum, err := version.NewVersion(r.MinVersion)
	if err != nil {
		return false
	}
	return v.GreaterThanOrEqual(minimum)
}

// Spec renders the record as a channel match specification ("numpy>=1.10").
func (r DependencyRecord) Spec() string {
	if r.MinVersion == "" {
		return r.Name.String()
	}
	return r.Name.String() + ">=" + r.MinVersion
}

// merge combines two records for the same package: the higher minimum wins and
// a required record makes the merged record required.
func (r DependencyRecord) merge(other DependencyRecord) DependencyRecord {
	merged := r
	if CompareVersions(other.MinVersion, r.MinVersion) > 0 {
		merged.MinVersion = other.MinVersion
	}
	merged.Optional = r.Optional && other.Optional
	if merged.Purpose == "" {
		merged.Purpose = other.Purpose
	}
	merged.Interpreters = ""
	return merged
}

// Manifest is the ordered set of dependencies a project declares.
type Manifest struct {
	// Interpreter is the package name the interpreter is published under.
	Interpreter string

	// Dependencies are the runtime and test dependencies of the project.
	Dependencies []DependencyRecord

	// Tooling are CI-only packages such as the coverage uploader.
	Tooling []DependencyRecord
}

// InterpreterPackage returns the interpreter's package name, defaulting to python.
func (m Manifest) InterpreterPackage() string {
	if m.Interpreter == "" {
		return DefaultInterpreterPackage
	}
	return m.Interpreter
}

// For returns the records that apply to the interpreter version, dependencies first and
// tooling after, in declaration order. Records naming the same package are merged.
func (m Manifest) For(interpreter string) ([]DependencyRecord, error) {
	all := make([]DependencyRecord, 0, len(m.Dependencies)+len(m.Tooling))
	all = append(all, m.Dependencies...)
	all = append(all, m.Tooling...)

	records := make([]DependencyRecord, 0, len(all))
	index := make(map[Ident]int, len(all))
	for _, record := range all {
		ok, err := record.AppliesTo(interpreter)
		if err != nil {
			return nil, zerr.With(err, "package", record.Name.String())
		}
		if !ok {
			continue
		}
		if i, seen := index[record.Name]; seen {
			records[i] = records[i].merge(record)
			continue
		}
		index[record.Name] = len(records)
		records = append(records, record)
	}
	return records, nil
}

// Validate checks every record of the manifest.
func (m Manifest) Validate() error {
	for _, record := range m.Dependencies {
		if err := record.Validate(); err != nil {
			return err
		}
	}
	for _, record := range m.Tooling {
		if err := record.Validate(); err != nil {
			return zerr.With(err, "section", "tooling")
		}
	}
	return nil
}

// CompareVersions orders two version strings. Empty and unparseable versions sort lowest.
func CompareVersions(a, b string) int {
	va, errA := version.NewVersion(a)
	vb, errB := version.NewVersion(b)
	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	default:
		return va.Compare(vb)
	}
}

// MatchesSeries reports whether a published version belongs to the declared series,
// so "2.7" matches "2.7" and "2.7.15" but not "2.70".
func MatchesSeries(published, series string) bool {
	return published == series || strings.HasPrefix(published, series+".")
}
