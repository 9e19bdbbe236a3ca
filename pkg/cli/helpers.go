/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/azops/pkg/fanout"
	"github.com/NVIDIA/azops/pkg/serializer"
)

// ErrPartial is returned when some work items failed and --fail-on-partial is set.
var ErrPartial = errors.New("partial success")

// Process exit codes.
const (
	ExitOK        = 0
	ExitError     = 1
	ExitCancelled = 2
	ExitPartial   = 3
)

// ExitCode maps the error returned by the root command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitCancelled
	case errors.Is(err, ErrPartial):
		return ExitPartial
	default:
		return ExitError
	}
}

var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path, '-' for stdout",
	}

	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: fmt.Sprintf("output format %v (default: derived from the output file extension)", serializer.SupportedFormats()),
	}
)

// parseOutputFormat returns the --format value, or the format implied by the
// output path when the flag is empty.
func parseOutputFormat(cmd *cli.Command, path string) (serializer.Format, error) {
	s := cmd.String("format")
	if s == "" {
		return serializer.FormatFromPath(path), nil
	}
	outFormat := serializer.Format(s)
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, valid formats are: %v", outFormat, serializer.SupportedFormats())
	}
	return outFormat, nil
}

// writeOutput serializes v to path, or stdout for "" and "-".
func writeOutput(ctx context.Context, format serializer.Format, path string, v any) error {
	ser, err := serializer.NewFileWriterOrStdout(format, path)
	if err != nil {
		return err
	}
	if c, ok := ser.(serializer.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				slog.Warn("failed to close serializer", "error", err)
			}
		}()
	}
	return ser.Serialize(ctx, v)
}

// failureMessages renders failures for documents.
func failureMessages(failures []fanout.Failure) map[string]string {
	if len(failures) == 0 {
		return nil
	}
	out := make(map[string]string, len(failures))
	for _, f := range failures {
		out[f.Label] = f.Err.Error()
	}
	return out
}
