/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package command

import (
	"context"
	"slices"

	json "github.com/goccy/go-json"
)

// AzureCLI issues `az` invocations through a Runner, appending the structured
// output flag and the optional subscription selector to every call.
type AzureCLI struct {
	runner       Runner
	subscription string
}

// NewAzureCLI wraps runner.
func NewAzureCLI(runner Runner) *AzureCLI {
	return &AzureCLI{runner: runner}
}

// Runner returns the underlying runner.
func (a *AzureCLI) Runner() Runner {
	return a.runner
}

// Subscription returns the subscription appended to every call, if any.
func (a *AzureCLI) Subscription() string {
	return a.subscription
}

// ForSubscription returns a copy that targets subscription id.
func (a *AzureCLI) ForSubscription(id string) *AzureCLI {
	return &AzureCLI{runner: a.runner, subscription: id}
}

// JSON runs `az <args> [--subscription id] -o json` and decodes the output into out.
func (a *AzureCLI) JSON(ctx context.Context, out any, args ...string) error {
	return Decode(ctx, a.runner, Invocation{Args: a.args(args, "json")}, out)
}

// Lines runs `az <args> [--subscription id] -o tsv` and returns the non-empty lines.
func (a *AzureCLI) Lines(ctx context.Context, args ...string) ([]string, error) {
	res, err := a.runner.Run(ctx, Invocation{Args: a.args(args, "tsv")})
	if err != nil {
		return nil, err
	}
	return res.Lines(), nil
}

// Raw runs `az <args> [--subscription id] -o json` and returns the validated JSON
// document without decoding it.
func (a *AzureCLI) Raw(ctx context.Context, args ...string) ([]byte, error) {
	inv := Invocation{Args: a.args(args, "json"), Mode: ModeJSON}
	res, err := a.runner.Run(ctx, inv)
	if err != nil {
		return nil, err
	}
	if !json.Valid(res.Stdout) {
		return nil, &MalformedOutputError{Command: inv.String(), Output: res.Stdout, Err: errNotJSON}
	}
	return res.Stdout, nil
}

// Apply runs `az <args>` with stdin piped to the process, for commands that read
// a document from standard input such as `--yaml -`.
func (a *AzureCLI) Apply(ctx context.Context, stdin []byte, args ...string) (*Result, error) {
	return a.runner.Run(ctx, Invocation{Args: a.args(args, "json"), Stdin: stdin})
}

func (a *AzureCLI) args(args []string, output string) []string {
	full := slices.Clone(args)
	if a.subscription != "" && !slices.Contains(full, "--subscription") {
		full = append(full, "--subscription", a.subscription)
	}
	return append(full, "-o", output)
}
