package domain

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Package is a resolved package pin.
type Package struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Channel string `json:"channel,omitempty"`
}

// Spec renders the pin as an exact channel match specification ("numpy==1.11.1").
func (p Package) Spec() string {
	return p.Name + "==" + p.Version
}

// EnvironmentSpec is the request to provision an isolated environment.
type EnvironmentSpec struct {
	// Name is the matrix entry the environment belongs to.
	Name string

	// Interpreter is the interpreter version the environment is pinned to.
	Interpreter string

	// InterpreterPackage is the package name the interpreter is published under.
	InterpreterPackage string

	// Prefix is the absolute directory the environment is created in.
	Prefix string

	// Channels are the package channels, in priority order.
	Channels []string

	// Variables are exported to every process run inside the environment.
	Variables map[string]string
}

// Environment is the descriptor of a provisioned environment.
// It is immutable: accessors return copies and With methods return new descriptors.
type Environment struct {
	id                 string
	name               string
	interpreter        string
	interpreterPackage string
	prefix             string
	channels           []string
	packages           []Package
	variables          map[string]string
}

// NewEnvironment freezes a provisioned spec into a descriptor.
func NewEnvironment(spec EnvironmentSpec) *Environment {
	pkg := spec.InterpreterPackage
	if pkg == "" {
		pkg = DefaultInterpreterPackage
	}
	env := &Environment{
		name:               spec.Name,
		interpreter:        spec.Interpreter,
		interpreterPackage: pkg,
		prefix:             spec.Prefix,
		channels:           slices.Clone(spec.Channels),
		variables:          maps.Clone(spec.Variables),
	}
	if env.variables == nil {
		env.variables = map[string]string{}
	}
	env.id = env.computeID()
	return env
}

// ID is a content hash of the interpreter, channels and installed pins.
func (e *Environment) ID() string { return e.id }

// Name returns the matrix entry name.
func (e *Environment) Name() string { return e.name }

// Interpreter returns the interpreter version the environment is pinned to.
func (e *Environment) Interpreter() string { return e.interpreter }

// Prefix returns the environment's root directory.
func (e *Environment) Prefix() string { return e.prefix }

// BinDir returns the directory holding the environment's executables.
func (e *Environment) BinDir() string { return filepath.Join(e.prefix, "bin") }

// Python returns the path of the environment's interpreter executable.
func (e *Environment) Python() string { return filepath.Join(e.BinDir(), e.interpreterPackage) }

// Channels returns a copy of the channel list.
func (e *Environment) Channels() []string { return slices.Clone(e.channels) }

// Packages returns a copy of the installed pins.
func (e *Environment) Packages() []Package { return slices.Clone(e.packages) }

// Variables returns a copy of the exported variables.
func (e *Environment) Variables() map[string]string { return maps.Clone(e.variables) }

// WithPackages returns a new descriptor with the pins appended.
// A pin replaces an earlier pin of the same package.
func (e *Environment) WithPackages(pins ...Package) *Environment {
	next := e.clone()
	for _, pin := range pins {
		i := slices.IndexFunc(next.packages, func(p Package) bool { return p.Name == pin.Name })
		if i >= 0 {
			next.packages[i] = pin
			continue
		}
		next.packages = append(next.packages, pin)
	}
	next.id = next.computeID()
	return next
}

// WithVariable returns a new descriptor with one more exported variable.
func (e *Environment) WithVariable(key, value string) *Environment {
	next := e.clone()
	next.variables[key] = value
	next.id = next.computeID()
	return next
}

// Env renders the descriptor as KEY=VALUE pairs, sorted by key.
// PATH starts with BinDir; executors append the host PATH.
func (e *Environment) Env() []string {
	vars := maps.Clone(e.variables)
	vars["CONDA_PREFIX"] = e.prefix
	if declared, ok := vars["PATH"]; ok && declared != "" {
		vars["PATH"] = e.BinDir() + string(os.PathListSeparator) + declared
	} else {
		vars["PATH"] = e.BinDir()
	}
	keys := slices.Sorted(maps.Keys(vars))
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+vars[k])
	}
	return env
}

func (e *Environment) clone() *Environment {
	return &Environment{
		id:                 e.id,
		name:               e.name,
		interpreter:        e.interpreter,
		interpreterPackage: e.interpreterPackage,
		prefix:             e.prefix,
		channels:           slices.Clone(e.channels),
		packages:           slices.Clone(e.packages),
		variables:          maps.Clone(e.variables),
	}
}

func (e *Environment) computeID() string {
	parts := map[string]string{
		e.interpreterPackage: e.interpreter,
		"channels":           strings.Join(e.channels, ","),
	}
	for _, p := range e.packages {
		parts["pkg:"+p.Name] = p.Version + "@" + p.Channel
	}
	for k, v := range e.variables {
		parts["env:"+k] = v
	}
	return GenerateEnvID(parts)
}
