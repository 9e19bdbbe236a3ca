/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/azops/pkg/command"
	"github.com/NVIDIA/azops/pkg/config"
	"github.com/NVIDIA/azops/pkg/defaults"
	"github.com/NVIDIA/azops/pkg/header"
	"github.com/NVIDIA/azops/pkg/llm"
	"github.com/NVIDIA/azops/pkg/logging"
)

const name = "azops"

// Option configures the root command.
type Option func(*app)

// WithVersion sets the version reported by --version and attached to logs.
func WithVersion(version string) Option {
	return func(a *app) {
		a.version = version
	}
}

// WithRunner replaces the az process runner.
func WithRunner(r command.Runner) Option {
	return func(a *app) {
		a.runner = r
	}
}

// WithLLM replaces the chat client built from the environment.
func WithLLM(c llm.Client) Option {
	return func(a *app) {
		a.llm = c
	}
}

// app holds the state shared by the commands of one run.
type app struct {
	version string
	runner  command.Runner
	llm     llm.Client

	cfg           *config.Config
	runID         string
	concurrency   int
	failOnPartial bool
}

// New returns the root command.
func New(opts ...Option) *cli.Command {
	a := &app{version: "dev"}
	for _, opt := range opts {
		opt(a)
	}

	return &cli.Command{
		Name:                  name,
		Usage:                 "Azure operations toolkit",
		Version:               a.version,
		EnableShellCompletion: true,
		Description: `Collects inventory, documents resource groups and databases, and relocates
container apps jobs by driving the az CLI.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "emit logs as JSON",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "load KEY=VALUE settings from a file before reading the environment",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "write prometheus metrics in text format to this file on exit",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: fmt.Sprintf("work items processed at once (default: AZOPS_CONCURRENCY or %d)", defaults.FanOutConcurrency),
			},
			&cli.BoolFlag{
				Name:  "fail-on-partial",
				Usage: "exit with code 3 when some work items failed",
			},
		},
		Before: a.before,
		After:  a.after,
		Commands: []*cli.Command{
			a.inventoryCmd(),
			a.dbrefCmd(),
			a.rgdocCmd(),
			a.jobsCmd(),
		},
	}
}

func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("env-file"); path != "" {
		if err := config.LoadEnvFile(path); err != nil {
			return ctx, err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return ctx, err
	}

	level := cfg.LogLevel
	if cmd.Bool("debug") {
		level = "debug"
	}
	logging.SetDefault(logging.Options{
		Level:   level,
		JSON:    cmd.Bool("log-json"),
		Name:    name,
		Version: a.version,
	})

	a.cfg = cfg
	a.runID = header.NewRunID()
	a.concurrency = cfg.Concurrency
	if cmd.IsSet("concurrency") {
		a.concurrency = int(cmd.Int("concurrency"))
	}
	a.failOnPartial = cmd.Bool("fail-on-partial")

	slog.Debug("starting run", "run_id", a.runID, "concurrency", a.concurrency)
	return ctx, nil
}

func (a *app) after(_ context.Context, cmd *cli.Command) error {
	path := cmd.String("metrics-file")
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	slog.Debug("metrics written", "path", path)
	return nil
}

// azureCLI returns the az client for this run.
func (a *app) azureCLI() *command.AzureCLI {
	r := a.runner
	if r == nil {
		r = command.NewExecRunner(a.cfg.AzPath,
			command.WithTimeout(a.cfg.CommandTimeout),
			command.WithRateLimit(a.cfg.AzQPS, defaults.CommandRateBurst),
		)
	}
	return command.NewAzureCLI(r)
}

// chatClient returns the retrying chat client for this run.
func (a *app) chatClient() (llm.Client, error) {
	c := a.llm
	if c == nil {
		if err := a.cfg.ValidateLLM(); err != nil {
			return nil, err
		}
		var err error
		if c, err = llm.NewClient(a.cfg.LLM()); err != nil {
			return nil, err
		}
	}
	return llm.NewResilientClient(c,
		llm.WithMaxAttempts(a.cfg.RetryAttempts),
		llm.WithBackoff(a.cfg.RetryBase),
	), nil
}

// finish turns the number of failed work items into the command result.
func (a *app) finish(ctx context.Context, failed int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if failed == 0 {
		return nil
	}
	slog.Warn("completed with failures", "run_id", a.runID, "failures", failed)
	if a.failOnPartial {
		return fmt.Errorf("%w: %d work items failed", ErrPartial, failed)
	}
	return nil
}
