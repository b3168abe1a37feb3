package core

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// CommandResult is the outcome of running an external program
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandRunner executes external programs.
// A non-zero exit is reported in the result, not as an error; the error is
// reserved for programs that could not be started or were killed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (CommandResult, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

// NewExecRunner creates a runner backed by the real system
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes name with args and captures its output
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (CommandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = 100 * time.Millisecond // Allow graceful shutdown after context cancel

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}

	return result, nil
}

var _ CommandRunner = (*ExecRunner)(nil)
