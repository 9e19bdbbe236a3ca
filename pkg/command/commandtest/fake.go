// Package commandtest provides a scripted command.Runner for tests.
package commandtest

import (
	"context"
	"strings"
	"sync"

	"github.com/NVIDIA/azops/pkg/command"
)

// Response is the scripted outcome of one invocation.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// FakeRunner returns scripted responses keyed by the space-joined arguments.
// Unknown invocations fail with a non-zero exit.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     []command.Invocation

	// Handler, when set, is consulted before the scripted responses.
	// Returning ok=false falls through to the scripted table.
	Handler func(inv command.Invocation) (Response, bool)
}

// New returns an empty FakeRunner.
func New() *FakeRunner {
	return &FakeRunner{responses: make(map[string]Response)}
}

// On scripts the response for the given arguments.
func (f *FakeRunner) On(args string, resp Response) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[args] = resp
	return f
}

// OnJSON scripts a successful JSON response for `<args> -o json`.
func (f *FakeRunner) OnJSON(args, stdout string) *FakeRunner {
	return f.On(args+" -o json", Response{Stdout: stdout})
}

// OnFail scripts a non-zero exit for `<args> -o json`.
func (f *FakeRunner) OnFail(args, stderr string) *FakeRunner {
	return f.On(args+" -o json", Response{ExitCode: 1, Stderr: stderr})
}

// Run implements command.Runner.
func (f *FakeRunner) Run(_ context.Context, inv command.Invocation) (*command.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, inv)
	handler := f.Handler
	resp, ok := f.responses[inv.String()]
	f.mu.Unlock()

	if handler != nil {
		if r, handled := handler(inv); handled {
			resp, ok = r, true
		}
	}

	if !ok {
		resp = Response{ExitCode: 2, Stderr: "unexpected command: " + inv.String()}
	}
	if resp.Err != nil {
		return nil, resp.Err
	}

	res := &command.Result{
		ExitCode: resp.ExitCode,
		Stdout:   []byte(resp.Stdout),
		Stderr:   resp.Stderr,
	}
	if resp.ExitCode != 0 {
		return res, &command.NonZeroExitError{Command: inv.String(), ExitCode: resp.ExitCode, Stderr: resp.Stderr}
	}
	return res, nil
}

// Calls returns a copy of the recorded invocations.
func (f *FakeRunner) Calls() []command.Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]command.Invocation, len(f.calls))
	copy(out, f.calls)
	return out
}

// Called reports how many recorded invocations start with prefix.
func (f *FakeRunner) Called(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c.String(), prefix) {
			n++
		}
	}
	return n
}
