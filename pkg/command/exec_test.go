package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	azerrors "github.com/NVIDIA/azops/pkg/errors"
)

const helperEnv = "AZOPS_WANT_HELPER_PROCESS"

// TestHelperProcess is not a real test. It is re-executed by the runner tests as
// a stand-in for the external CLI.
func TestHelperProcess(t *testing.T) {
	if os.Getenv(helperEnv) != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}
	if len(args) == 0 {
		os.Exit(2)
	}

	switch args[0] {
	case "json":
		fmt.Fprint(os.Stdout, `[{"name":"rg-a"},{"name":"rg-b"}]`)
	case "text":
		fmt.Fprint(os.Stdout, "rg-a\n\nrg-b\n")
	case "garbage":
		fmt.Fprint(os.Stdout, "this is not json")
	case "fail":
		fmt.Fprint(os.Stdout, "{not json")
		fmt.Fprint(os.Stderr, "ERROR: (ResourceGroupNotFound) Resource group 'x' could not be found.")
		os.Exit(3)
	case "echo-stdin":
		_, _ = io.Copy(os.Stdout, os.Stdin)
	case "pwd":
		wd, _ := os.Getwd()
		fmt.Fprint(os.Stdout, wd)
	case "sleep":
		time.Sleep(10 * time.Second)
	}
	os.Exit(0)
}

func helperRunner(opts ...Option) *ExecRunner {
	env := append(os.Environ(), helperEnv+"=1")
	return NewExecRunner(os.Args[0], append([]Option{WithEnv(env)}, opts...)...)
}

func helperArgs(args ...string) []string {
	return append([]string{"-test.run=TestHelperProcess", "--"}, args...)
}

func TestExecRunner_TextOutput(t *testing.T) {
	r := helperRunner()

	res, err := r.Run(context.Background(), Invocation{Args: helperArgs("text")})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, []string{"rg-a", "rg-b"}, res.Lines())
}

func TestExecRunner_JSONMode(t *testing.T) {
	r := helperRunner()

	var groups []struct {
		Name string `json:"name"`
	}
	err := Decode(context.Background(), r, Invocation{Args: helperArgs("json")}, &groups)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "rg-a", groups[0].Name)
	assert.Equal(t, "rg-b", groups[1].Name)
}

func TestExecRunner_MalformedOutput(t *testing.T) {
	r := helperRunner()

	res, err := r.Run(context.Background(), Invocation{Args: helperArgs("garbage"), Mode: ModeJSON})
	require.Error(t, err)

	var malformed *MalformedOutputError
	require.ErrorAs(t, err, &malformed)
	assert.True(t, azerrors.IsCode(err, azerrors.ErrCodeMalformedOutput))
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "this is not json", string(malformed.Output))
}

func TestExecRunner_NonZeroExitNeverParses(t *testing.T) {
	r := helperRunner()

	var out map[string]any
	err := Decode(context.Background(), r, Invocation{Args: helperArgs("fail")}, &out)
	require.Error(t, err)

	var exitErr *NonZeroExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.ExitCode)
	assert.Contains(t, exitErr.Stderr, "ResourceGroupNotFound")

	var malformed *MalformedOutputError
	assert.False(t, errors.As(err, &malformed), "non-zero exit must not be reported as malformed output")
	assert.Nil(t, out)
}

func TestExecRunner_SpawnFailed(t *testing.T) {
	r := NewExecRunner("azops-definitely-missing-binary")

	res, err := r.Run(context.Background(), Invocation{Args: []string{"group", "list"}})
	require.Error(t, err)
	assert.Nil(t, res)

	var spawnErr *SpawnFailedError
	require.ErrorAs(t, err, &spawnErr)
	assert.Equal(t, "azops-definitely-missing-binary", spawnErr.Executable)
	assert.True(t, azerrors.IsCode(err, azerrors.ErrCodeSpawnFailed))
}

func TestExecRunner_EmptyArgs(t *testing.T) {
	r := helperRunner()

	_, err := r.Run(context.Background(), Invocation{})
	require.Error(t, err)
	assert.True(t, azerrors.IsCode(err, azerrors.ErrCodeInvalidRequest))
}

func TestExecRunner_Stdin(t *testing.T) {
	r := helperRunner()

	payload := []byte(`{"name":"job-1"}`)
	res, err := r.Run(context.Background(), Invocation{Args: helperArgs("echo-stdin"), Stdin: payload})
	require.NoError(t, err)
	assert.Equal(t, string(payload), string(res.Stdout))
}

func TestExecRunner_WorkingDirectory(t *testing.T) {
	r := helperRunner()
	dir := t.TempDir()

	res, err := r.Run(context.Background(), Invocation{Args: helperArgs("pwd"), Dir: dir})
	require.NoError(t, err)

	want, err := os.Stat(dir)
	require.NoError(t, err)
	got, err := os.Stat(res.Text())
	require.NoError(t, err)
	assert.True(t, os.SameFile(want, got))
}

func TestExecRunner_Timeout(t *testing.T) {
	r := helperRunner(WithTimeout(200 * time.Millisecond))

	start := time.Now()
	_, err := r.Run(context.Background(), Invocation{Args: helperArgs("sleep")})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.True(t, azerrors.IsCode(err, azerrors.ErrCodeTimeout))
}

func TestExecRunner_ParentContextCanceled(t *testing.T) {
	r := helperRunner()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := r.Run(ctx, Invocation{Args: helperArgs("sleep")})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var timeoutErr *TimeoutError
	assert.False(t, errors.As(err, &timeoutErr))
}

func TestExecRunner_RateLimit(t *testing.T) {
	r := helperRunner(WithRateLimit(1000, 1))
	require.NotNil(t, r.limiter)

	_, err := r.Run(context.Background(), Invocation{Args: helperArgs("text")})
	require.NoError(t, err)

	disabled := helperRunner(WithRateLimit(0, 1))
	assert.Nil(t, disabled.limiter)
}

func TestDecode_TypeMismatchIsMalformed(t *testing.T) {
	runner := RunnerFunc(func(_ context.Context, inv Invocation) (*Result, error) {
		assert.Equal(t, ModeJSON, inv.Mode)
		return &Result{Stdout: []byte(`{"name":"x"}`)}, nil
	})

	var list []string
	err := Decode(context.Background(), runner, Invocation{Args: []string{"group", "show"}}, &list)
	require.Error(t, err)
	assert.True(t, azerrors.IsCode(err, azerrors.ErrCodeMalformedOutput))
}
