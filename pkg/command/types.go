/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package command

import (
	"context"
	"strings"
	"time"
)

// Mode selects how the captured standard output is treated.
type Mode int

const (
	// ModeText keeps standard output as raw text.
	ModeText Mode = iota

	// ModeJSON requires standard output to be a valid JSON document.
	ModeJSON
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeJSON {
		return "json"
	}
	return "text"
}

// Invocation describes one execution of the runner's executable.
type Invocation struct {
	// Args are passed to the executable. Must not be empty.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Stdin is written to the process standard input, which is closed afterwards.
	Stdin []byte

	// Mode selects text or JSON output handling.
	Mode Mode
}

// String returns the arguments joined by spaces, for logging.
func (i Invocation) String() string {
	return strings.Join(i.Args, " ")
}

// Result is the outcome of a completed process.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   string
	Duration time.Duration
}

// Text returns standard output with surrounding whitespace trimmed.
func (r *Result) Text() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(string(r.Stdout))
}

// Lines returns the non-empty lines of standard output.
func (r *Result) Lines() []string {
	text := r.Text()
	if text == "" {
		return nil
	}
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// Runner executes invocations.
// Implementations must be safe for concurrent use.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (*Result, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, inv Invocation) (*Result, error)

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, inv Invocation) (*Result, error) {
	return f(ctx, inv)
}
