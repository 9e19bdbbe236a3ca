/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/NVIDIA/azops/pkg/cli"
)

var (
	// overridden at build time with -ldflags "-X main.version=..."
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.New(cli.WithVersion(fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)))
	err := cmd.Run(ctx, os.Args)
	if err != nil {
		slog.Error("azops failed", "error", err)
	}

	code := cli.ExitCode(err)
	stop()
	os.Exit(code)
}
