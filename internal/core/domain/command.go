package domain

import (
	"maps"
	"slices"
	"strings"
)

// Command is a process to run inside an environment.
type Command struct {
	// Args is the argv; Args[0] is the executable.
	Args []string

	// Dir is the working directory.
	Dir string

	// Env holds extra KEY=VALUE pairs layered over the environment's variables.
	Env []string
}

// String returns the argv joined by spaces, for logs.
func (c Command) String() string {
	return strings.Join(c.Args, " ")
}

// ExpandArgs substitutes {key} placeholders in every argument.
// Unknown placeholders are left as written.
func ExpandArgs(args []string, vars map[string]string) []string {
	pairs := make([]string, 0, len(vars)*2)
	for _, k := range slices.Sorted(maps.Keys(vars)) {
		pairs = append(pairs, "{"+k+"}", vars[k])
	}
	replacer := strings.NewReplacer(pairs...)
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = replacer.Replace(arg)
	}
	return out
}
