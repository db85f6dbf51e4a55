// Package output creates termenv outputs with the colour profile used across the CLI.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsCI reports whether the process runs under a CI system.
func IsCI() bool {
	return os.Getenv("CI") != ""
}

// Profile selects the colour profile for w.
// NO_COLOR forces Ascii; CI logs get plain ANSI; terminals get their detected profile;
// anything else (files, pipes, buffers) is Ascii.
func Profile(w io.Writer) termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	if IsCI() {
		return termenv.ANSI
	}
	if isTerminal(w) {
		return termenv.EnvColorProfile()
	}
	return termenv.Ascii
}

// New creates a termenv.Output for w using Profile. A nil writer means stderr.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(Profile(w)),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}
