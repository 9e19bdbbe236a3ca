/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package command runs external executables and decodes their structured output.
//
// # Overview
//
// A Runner executes one Invocation and returns a Result holding the exit code and
// both captured output streams. Runners hold no per-call state: every invocation
// spawns its own process and nothing is cached between calls.
//
//	runner := command.NewExecRunner("az", command.WithTimeout(2*time.Minute))
//	az := command.NewAzureCLI(runner)
//
//	var groups []map[string]any
//	if err := az.JSON(ctx, &groups, "group", "list"); err != nil {
//	    return err
//	}
//
// # Failures
//
// Runners report four kinds of failure, each with its own error type and code:
//
//   - SpawnFailedError: the executable is missing or could not be started
//   - NonZeroExitError: the process exited with a non-zero status; stderr is attached
//   - MalformedOutputError: exit status was zero but the output is not valid JSON
//   - TimeoutError: the configured per-invocation timeout elapsed
//
// JSON decoding is only attempted after a zero exit status. Nothing here retries;
// retry policy belongs to the caller.
package command
