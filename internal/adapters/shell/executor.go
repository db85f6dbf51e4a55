// Package shell provides an executor for running commands inside environments.
package shell

import (
	"context"
	"errors"
	"io"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec. Commands run on a pseudo-terminal
// so tools keep their progress output; when no pty is available they fall back to pipes.
type Executor struct {
	sysEnv func() []string
}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{sysEnv: os.Environ}
}

// Execute runs the command and waits for it to complete.
func (e *Executor) Execute(ctx context.Context, cmd domain.Command, env []string, stdout, stderr io.Writer) error {
	if len(cmd.Args) == 0 {
		return domain.ErrEmptyCommand
	}

	cmdEnv := resolveEnvironment(e.sysEnv(), env, cmd.Env)

	name := cmd.Args[0]
	executable := name
	if !filepath.IsAbs(name) && !strings.Contains(name, string(filepath.Separator)) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, cmd.Args[1:]...) //nolint:gosec // commands come from the project file
	c.Args[0] = name
	c.Dir = cmd.Dir
	c.Env = cmdEnv

	err := runPTY(c, stdout)
	if errors.Is(err, errNoPTY) {
		c = exec.CommandContext(ctx, executable, cmd.Args[1:]...) //nolint:gosec // commands come from the project file
		c.Args[0] = name
		c.Dir = cmd.Dir
		c.Env = cmdEnv
		c.Stdout = stdout
		c.Stderr = stderr
		err = c.Run()
	}
	if err == nil {
		return nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	err = zerr.With(errors.Join(domain.ErrCommandFailed, err), "exit_code", exitCode)
	return zerr.With(err, "command", cmd.String())
}

var errNoPTY = errors.New("pty unavailable")

// runPTY starts c on a pseudo-terminal and copies its merged output to w.
func runPTY(c *exec.Cmd, w io.Writer) error {
	ptmx, err := pty.Start(c)
	if err != nil {
		if c.Process == nil {
			return errors.Join(errNoPTY, err)
		}
		return zerr.Wrap(err, "failed to start pty")
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		_, _ = io.Copy(w, ptmx)
	}()

	err = c.Wait()
	<-ioDone
	_ = ptmx.Close()
	return err
}

// allowListedEnvVars are the host variables a command inherits. Everything else
// comes from the environment descriptor.
var allowListedEnvVars = map[string]struct{}{
	"HOME":   {},
	"TERM":   {},
	"USER":   {},
	"PATH":   {},
	"TMPDIR": {},
}

// resolveEnvironment merges host, environment and command variables, in increasing priority.
// An environment PATH is prepended to the host PATH; a command PATH replaces it.
func resolveEnvironment(sysEnv, env, cmdEnv []string) []string {
	envMap := filterSystemEnv(sysEnv)

	for _, entry := range env {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if k == "PATH" {
			if sysPath := envMap["PATH"]; sysPath != "" {
				v = v + string(os.PathListSeparator) + sysPath
			}
		}
		envMap[k] = v
	}

	for _, entry := range cmdEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}

	result := make([]string, 0, len(envMap))
	for _, k := range slices.Sorted(maps.Keys(envMap)) {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

func filterSystemEnv(sysEnv []string) map[string]string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			envMap[k] = v
		}
	}
	return envMap
}

// lookPath searches for an executable in the PATH of env rather than the host's.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if p, ok := strings.CutPrefix(e, "PATH="); ok {
			path = p
			break
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
