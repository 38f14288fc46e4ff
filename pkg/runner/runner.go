// Package runner executes one external program to completion under a deadline.
//
// Programs are started from a discrete argument vector, never through a shell.
// Standard output and standard error are drained concurrently while the runner
// waits for the process, and every started process is reaped before Execute
// returns. On timeout the whole process group is killed.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/tb0hdan/kali-mcp/pkg/toolerr"
)

const (
	DefaultTimeout   = 5 * time.Minute
	DefaultWaitDelay = 2 * time.Second
)

// Runner is safe for concurrent use. It holds no per-call state.
type Runner struct {
	logger         zerolog.Logger
	defaultTimeout time.Duration
	waitDelay      time.Duration
	lookPath       func(string) (string, error)
}

type Option func(*Runner)

// WithDefaultTimeout sets the deadline used when a request carries none.
func WithDefaultTimeout(timeout time.Duration) Option {
	return func(r *Runner) {
		if timeout > 0 {
			r.defaultTimeout = timeout
		}
	}
}

// WithWaitDelay bounds how long Execute keeps reading output after the process
// was killed or exited while a descendant still holds its pipes open.
func WithWaitDelay(delay time.Duration) Option {
	return func(r *Runner) {
		if delay > 0 {
			r.waitDelay = delay
		}
	}
}

// WithLookPath replaces the executable search function.
func WithLookPath(lookPath func(string) (string, error)) Option {
	return func(r *Runner) {
		if lookPath != nil {
			r.lookPath = lookPath
		}
	}
}

func New(logger zerolog.Logger, opts ...Option) *Runner {
	r := &Runner{
		logger:         logger.With().Str("component", "runner").Logger(),
		defaultTimeout: DefaultTimeout,
		waitDelay:      DefaultWaitDelay,
		lookPath:       exec.LookPath,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultTimeout returns the deadline applied to requests without one.
func (r *Runner) DefaultTimeout() time.Duration {
	return r.defaultTimeout
}

// CheckAvailability reports whether binary resolves to an executable file.
func (r *Runner) CheckAvailability(binary string) bool {
	_, ok := r.resolve(binary)
	return ok
}

func (r *Runner) resolve(binary string) (string, bool) {
	if strings.TrimSpace(binary) == "" {
		return "", false
	}
	path, err := r.lookPath(binary)
	if err != nil || path == "" {
		return "", false
	}
	return path, true
}

// Execute runs req to completion. A non-zero exit status is reported in the
// Result and is not an error. Errors are always *toolerr.Error values.
func (r *Runner) Execute(ctx context.Context, req Request) (*Result, error) {
	path, ok := r.resolve(req.Binary)
	if !ok {
		r.logger.Debug().Str("binary", req.Binary).Msg("binary not available")
		return nil, toolerr.Unavailable(req.Binary)
	}
	if err := ctx.Err(); err != nil {
		return nil, toolerr.Canceled(req.Binary, err)
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = r.defaultTimeout
	}
	commandLine := FormatCommandLine(req.Binary, req.Args, req.Secrets...)

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	var killed atomic.Bool

	cmd := exec.CommandContext(execCtx, path, req.Args...) //nolint:gosec
	// Non-*os.File writers make os/exec copy each stream in its own goroutine,
	// so a full stderr pipe never blocks the stdout reader and vice versa.
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		killed.Store(true)
		return killProcessGroup(cmd)
	}
	cmd.WaitDelay = r.waitDelay

	start := time.Now()
	if err := cmd.Start(); err != nil {
		if execCtx.Err() != nil {
			return nil, r.interrupted(ctx, req.Binary, timeout)
		}
		r.logger.Warn().Err(err).Str("binary", req.Binary).Msg("failed to start process")
		return nil, toolerr.Spawn(req.Binary, err)
	}
	pid := cmd.Process.Pid
	r.logger.Info().Int("pid", pid).Dur("timeout", timeout).Msgf("Executing command: %s", commandLine)

	waitErr := cmd.Wait()
	duration := time.Since(start)

	if killed.Load() {
		r.logger.Warn().Int("pid", pid).Dur("duration", duration).Msgf("%s killed after %s", req.Binary, timeout)
		return nil, r.interrupted(ctx, req.Binary, timeout)
	}
	// Descendants may outlive the leader whatever its exit status; the group
	// is killed unconditionally so none survive Execute.
	_ = killProcessGroup(cmd)
	if errors.Is(waitErr, exec.ErrWaitDelay) {
		r.logger.Warn().Int("pid", pid).Msgf("%s left descendants holding its output open", req.Binary)
	} else if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, toolerr.Spawn(req.Binary, waitErr)
		}
	}

	state := cmd.ProcessState
	result := &Result{
		CommandLine: commandLine,
		PID:         pid,
		ExitCode:    state.ExitCode(),
		Signal:      exitSignal(state),
		Stdout:      decodeOutput(stdout.Bytes()),
		Stderr:      decodeOutput(stderr.Bytes()),
		Success:     state.ExitCode() == 0,
		Duration:    duration,
	}

	r.logger.Debug().
		Int("pid", pid).
		Int("exit_code", result.ExitCode).
		Int("stdout_bytes", stdout.Len()).
		Int("stderr_bytes", stderr.Len()).
		Dur("duration", duration).
		Msgf("%s finished", req.Binary)

	return result, nil
}

func (r *Runner) interrupted(ctx context.Context, binary string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return toolerr.Canceled(binary, err)
	}
	return toolerr.Timeout(binary, timeout)
}
