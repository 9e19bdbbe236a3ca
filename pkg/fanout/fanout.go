/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package fanout runs independent work items concurrently and merges their
// result rows into one report.
//
// A failing item contributes no rows. Its error is recorded in the report and
// logged, and sibling items keep running. Rows produced by a single item stay
// contiguous and in the order the item returned them; the order across items
// is completion order.
//
//	report := fanout.Map(ctx, subscriptions, collect,
//	    fanout.WithLimit(4),
//	    fanout.WithLabel(func(s string) string { return s }),
//	)
//	if report.Partial() {
//	    slog.Warn("some subscriptions failed", "error", report.Err())
//	}
package fanout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/azops/pkg/defaults"
	azerrors "github.com/NVIDIA/azops/pkg/errors"
)

// Failure records a work item that produced an error.
type Failure struct {
	Index int    `json:"index" yaml:"index"`
	Label string `json:"label" yaml:"label"`
	Err   error  `json:"-" yaml:"-"`
}

// Error returns the failure as a single line.
func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Label, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Report is the fully materialized result of Map.
type Report[R any] struct {
	Rows     []R
	Failures []Failure
}

// Partial reports whether at least one item failed.
func (r *Report[R]) Partial() bool {
	return len(r.Failures) > 0
}

// Err joins the item failures, or returns nil when every item succeeded.
func (r *Report[R]) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

type config struct {
	limit int
	name  string
	label func(any) string
}

// Option configures Map.
type Option func(*config)

// WithLimit bounds the number of items processed at once. Zero keeps the
// default and a negative n runs every item at once.
func WithLimit(n int) Option {
	return func(c *config) {
		if n != 0 {
			c.limit = n
		}
	}
}

// WithName labels the batch in logs and metrics.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithLabel names individual items in logs and failures. The item type must
// match the type of the items passed to Map.
func WithLabel[T any](fn func(T) string) Option {
	return func(c *config) {
		c.label = func(v any) string {
			if item, ok := v.(T); ok {
				return fn(item)
			}
			return fmt.Sprint(v)
		}
	}
}

// Map calls fn once per item on a bounded pool and returns after every call
// has finished. It never returns an error itself: per-item errors and panics
// are recorded as failures in the report.
func Map[T, R any](ctx context.Context, items []T, fn func(ctx context.Context, item T) ([]R, error), opts ...Option) *Report[R] {
	cfg := &config{
		limit: defaults.FanOutConcurrency,
		name:  "batch",
		label: func(v any) string { return fmt.Sprint(v) },
	}
	for _, opt := range opts {
		opt(cfg)
	}

	start := time.Now()
	defer func() {
		fanoutBatchDuration.WithLabelValues(cfg.name).Observe(time.Since(start).Seconds())
	}()

	slog.Debug("starting fan-out", "batch", cfg.name, "items", len(items), "limit", cfg.limit)

	report := &Report[R]{}
	var mu sync.Mutex

	// the group context is not used: no task returns an error, so siblings
	// are never cancelled
	var g errgroup.Group
	if cfg.limit > 0 {
		g.SetLimit(cfg.limit)
	}

	for i, item := range items {
		g.Go(func() error {
			itemStart := time.Now()
			label := cfg.label(item)

			rows, err := runItem(ctx, item, fn)
			fanoutItemDuration.WithLabelValues(cfg.name).Observe(time.Since(itemStart).Seconds())

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fanoutItemTotal.WithLabelValues(cfg.name, "error").Inc()
				slog.Error("work item failed",
					slog.String("batch", cfg.name),
					slog.String("item", label),
					slog.String("code", string(azerrors.CodeOf(err))),
					slog.String("error", err.Error()),
				)
				report.Failures = append(report.Failures, Failure{Index: i, Label: label, Err: err})
				return nil
			}
			fanoutItemTotal.WithLabelValues(cfg.name, "success").Inc()
			report.Rows = append(report.Rows, rows...)
			return nil
		})
	}

	_ = g.Wait()

	fanoutRowCount.WithLabelValues(cfg.name).Set(float64(len(report.Rows)))
	slog.Debug("fan-out complete",
		slog.String("batch", cfg.name),
		slog.Int("rows", len(report.Rows)),
		slog.Int("failures", len(report.Failures)),
	)

	return report
}

func runItem[T, R any](ctx context.Context, item T, fn func(context.Context, T) ([]R, error)) (rows []R, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("recovered panic in work item", "stack", string(debug.Stack()))
			rows, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, item)
}
