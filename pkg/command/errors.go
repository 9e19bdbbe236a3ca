/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package command

import (
	"fmt"
	"strings"
	"time"

	azerrors "github.com/NVIDIA/azops/pkg/errors"
)

// SpawnFailedError reports that the executable could not be started.
type SpawnFailedError struct {
	Executable string
	Err        error
}

func (e *SpawnFailedError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Executable, e.Err)
}

func (e *SpawnFailedError) Unwrap() error { return e.Err }

// ErrorCode implements errors.Coder.
func (e *SpawnFailedError) ErrorCode() azerrors.ErrorCode { return azerrors.ErrCodeSpawnFailed }

// NonZeroExitError reports a process that exited with a non-zero status.
type NonZeroExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *NonZeroExitError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("%q exited with status %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%q exited with status %d: %s", e.Command, e.ExitCode, stderr)
}

// ErrorCode implements errors.Coder.
func (e *NonZeroExitError) ErrorCode() azerrors.ErrorCode { return azerrors.ErrCodeNonZeroExit }

// MalformedOutputError reports output that did not decode as the expected JSON.
type MalformedOutputError struct {
	Command string
	Output  []byte
	Err     error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed output from %q: %v", e.Command, e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// ErrorCode implements errors.Coder.
func (e *MalformedOutputError) ErrorCode() azerrors.ErrorCode { return azerrors.ErrCodeMalformedOutput }

// TimeoutError reports a process killed after exceeding the runner timeout.
type TimeoutError struct {
	Command string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%q timed out after %s", e.Command, e.Timeout)
}

// ErrorCode implements errors.Coder.
func (e *TimeoutError) ErrorCode() azerrors.ErrorCode { return azerrors.ErrCodeTimeout }
