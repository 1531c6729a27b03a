// Package runner builds and executes ansible-playbook invocations.
package runner

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"platformapi/internal/errors"
)

// Options holds the fixed invocation configuration. These values are
// process-wide configuration, never request-controlled: caller-supplied
// data may only influence the inventory file content, which keeps host
// strings from ever becoming flags or binary paths.
type Options struct {
	Binary       string // Automation binary name or path
	RemoteUser   string // Connection user passed via --user
	PrivateKey   string // Private key path passed via --private-key
	SSHExtraArgs string // Extra SSH options passed via --ssh-extra-args
}

// CommandSpec is the ordered argument list for one external process.
// Immutable once built.
type CommandSpec struct {
	Binary string
	Args   []string
}

// CommandLine renders the invocation as a single space-joined string
// for display and API responses.
func (cs CommandSpec) CommandLine() string {
	return strings.Join(append([]string{cs.Binary}, cs.Args...), " ")
}

// BuildCommand assembles the fixed-shape invocation from the chosen
// inventory path and the playbook path. The playbook must exist.
func BuildCommand(opts Options, inventoryPath, playbookPath string) (CommandSpec, error) {
	if _, err := os.Stat(playbookPath); err != nil {
		return CommandSpec{}, errors.NewNotFoundError(
			fmt.Sprintf("playbook not found: %s", playbookPath), err)
	}

	return CommandSpec{
		Binary: opts.Binary,
		Args: []string{
			"-i", inventoryPath,
			playbookPath,
			"--user", opts.RemoteUser,
			"--private-key", opts.PrivateKey,
			"--ssh-extra-args", opts.SSHExtraArgs,
		},
	}, nil
}

// Result holds the captured outcome of one completed process run.
// A nonzero exit code is a normal Result at this layer, not an error.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Runner defines the interface for executing a built command
type Runner interface {
	// Run executes the command synchronously with a bounded timeout
	Run(ctx context.Context, spec CommandSpec, timeout time.Duration) (*Result, error)
}

// ExecRunner implements Runner using os/exec
type ExecRunner struct{}

// NewRunner creates a new ExecRunner
func NewRunner() Runner {
	return &ExecRunner{}
}

// Run executes the command with the given timeout, capturing stdout and
// stderr as text. Failure modes are classified and never silently
// swallowed: a missing binary and an exceeded timeout each produce a
// distinct error, while process completion with any exit code produces
// a normal Result. A single invocation per call, no retries: automation
// runs are not idempotent-safe to retry blindly.
func (r *ExecRunner) Run(ctx context.Context, spec CommandSpec, timeout time.Duration) (*Result, error) {
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, spec.Binary, spec.Args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if err != nil {
		// Timeout takes precedence: the context kills the process,
		// which surfaces as a signal-terminated ExitError.
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, errors.NewTimeoutError(
				fmt.Sprintf("%s timed out after %v", spec.Binary, timeout), err)
		}

		if stderrors.Is(err, exec.ErrNotFound) {
			return nil, errors.NewBinaryMissingError(
				fmt.Sprintf("%s not found on PATH", spec.Binary), err)
		}

		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			return &Result{
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
				Duration: duration,
			}, nil
		}

		return nil, errors.NewExecutionError(
			fmt.Sprintf("failed to run %s", spec.Binary), err)
	}

	return &Result{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: duration,
	}, nil
}
