/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	azerrors "github.com/NVIDIA/azops/pkg/errors"
)

var errNotJSON = errors.New("output is not a valid JSON document")

// ExecRunner runs a fixed executable through os/exec.
type ExecRunner struct {
	executable string
	timeout    time.Duration
	limiter    *rate.Limiter
	env        []string
}

// Option configures an ExecRunner.
type Option func(*ExecRunner)

// WithTimeout bounds every invocation. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *ExecRunner) {
		r.timeout = d
	}
}

// WithRateLimit limits how many processes may start per second across all
// concurrent callers. A non-positive qps disables the limit.
func WithRateLimit(qps float64, burst int) Option {
	return func(r *ExecRunner) {
		if qps <= 0 {
			r.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(qps), burst)
	}
}

// WithEnv sets the process environment. Nil inherits the current environment.
func WithEnv(env []string) Option {
	return func(r *ExecRunner) {
		r.env = env
	}
}

// NewExecRunner returns a runner for executable.
func NewExecRunner(executable string, opts ...Option) *ExecRunner {
	r := &ExecRunner{executable: executable}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Executable returns the configured executable name.
func (r *ExecRunner) Executable() string {
	return r.executable
}

// Run executes inv and waits for the process to exit.
// A non-zero exit returns the Result together with a *NonZeroExitError.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (*Result, error) {
	if len(inv.Args) == 0 {
		return nil, azerrors.New(azerrors.ErrCodeInvalidRequest, "command arguments must not be empty").
			WithContext("executable", r.executable)
	}

	display := r.executable + " " + inv.String()

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			commandTotal.WithLabelValues(outcomeCanceled).Inc()
			return nil, fmt.Errorf("waiting to run %q: %w", display, err)
		}
	}

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, r.executable, inv.Args...)
	cmd.Dir = inv.Dir
	if r.env != nil {
		cmd.Env = r.env
	}
	if inv.Stdin != nil {
		cmd.Stdin = bytes.NewReader(inv.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("running command", "command", display, "mode", inv.Mode.String())

	start := time.Now()
	if err := cmd.Start(); err != nil {
		commandTotal.WithLabelValues(outcomeSpawnFailed).Inc()
		return nil, &SpawnFailedError{Executable: r.executable, Err: err}
	}
	waitErr := cmd.Wait()
	elapsed := time.Since(start)
	commandDuration.Observe(elapsed.Seconds())

	res := &Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.String(),
		Duration: elapsed,
	}

	if waitErr != nil {
		// the parent context wins over the runner timeout
		if ctx.Err() != nil {
			commandTotal.WithLabelValues(outcomeCanceled).Inc()
			return res, fmt.Errorf("running %q: %w", display, ctx.Err())
		}
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			commandTotal.WithLabelValues(outcomeTimeout).Inc()
			return res, &TimeoutError{Command: display, Timeout: r.timeout}
		}
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			commandTotal.WithLabelValues(outcomeSpawnFailed).Inc()
			return res, &SpawnFailedError{Executable: r.executable, Err: waitErr}
		}
		commandTotal.WithLabelValues(outcomeNonZeroExit).Inc()
		slog.Debug("command failed", "command", display, "exit_code", res.ExitCode, "stderr", res.Stderr)
		return res, &NonZeroExitError{Command: display, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}

	if inv.Mode == ModeJSON && !json.Valid(res.Stdout) {
		commandTotal.WithLabelValues(outcomeMalformedOutput).Inc()
		return res, &MalformedOutputError{
			Command: display,
			Output:  res.Stdout,
			Err:     errNotJSON,
		}
	}

	commandTotal.WithLabelValues(outcomeSuccess).Inc()
	slog.Debug("command completed", "command", display, "duration", elapsed)

	return res, nil
}

// Decode runs inv in JSON mode and unmarshals standard output into out.
// Decoding is never attempted when the runner reports an error.
func Decode(ctx context.Context, runner Runner, inv Invocation, out any) error {
	inv.Mode = ModeJSON
	res, err := runner.Run(ctx, inv)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(res.Stdout, out); err != nil {
		commandTotal.WithLabelValues(outcomeMalformedOutput).Inc()
		return &MalformedOutputError{Command: inv.String(), Output: res.Stdout, Err: err}
	}
	return nil
}
