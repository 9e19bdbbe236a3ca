/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package retry implements a bounded retry loop with exponential backoff.
//
// The delay after the failed attempt n (numbered from 0) is Base * 2^n, so a
// three-attempt call sleeps Base and then 2*Base. The schedule is a backoff
// ExponentialBackOff without randomization; the loop owns the sleeping so the
// sleeper can be replaced. There is no state shared between calls.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/NVIDIA/azops/pkg/defaults"
	azerrors "github.com/NVIDIA/azops/pkg/errors"
)

var retryAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "azops_retry_attempts_total",
		Help: "Total number of attempts made by retry loops",
	},
	[]string{"operation", "status"}, // success or error
)

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// ContextSleep is the default Sleeper.
func ContextSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Policy configures a retry loop.
type Policy struct {
	// Name labels log lines and metrics.
	Name string

	// MaxAttempts is the total number of attempts. Values below 1 mean 1.
	MaxAttempts int

	// Base is the backoff time unit.
	Base time.Duration

	// MaxDelay caps a single delay. Zero means no cap.
	MaxDelay time.Duration

	// Sleep is used between attempts. Nil uses ContextSleep.
	Sleep Sleeper
}

// DefaultPolicy returns the policy used for chat completion calls.
func DefaultPolicy(name string) Policy {
	return Policy{
		Name:        name,
		MaxAttempts: defaults.RetryMaxAttempts,
		Base:        defaults.RetryBase,
		MaxDelay:    defaults.RetryMaxDelay,
	}
}

// backOff returns a jitter-free exponential schedule starting at Base.
func (p Policy) backOff() *backoff.ExponentialBackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     p.Base,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         p.MaxDelay,
	}
	if b.MaxInterval <= 0 {
		b.MaxInterval = time.Duration(math.MaxInt64)
	}
	b.Reset()
	return b
}

// Delay returns the backoff after the failed attempt n, numbered from 0.
func (p Policy) Delay(n int) time.Duration {
	// the interval saturates long before this
	n = min(max(n, 0), 62)
	b := p.backOff()
	d := b.NextBackOff()
	for range n {
		d = b.NextBackOff()
	}
	return d
}

// ExhaustedRetriesError is returned when every attempt failed.
type ExhaustedRetriesError struct {
	Operation string
	Attempts  int
	LastError error
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("%s failed after %d attempt(s): %v", e.Operation, e.Attempts, e.LastError)
}

func (e *ExhaustedRetriesError) Unwrap() error { return e.LastError }

// ErrorCode implements errors.Coder.
func (e *ExhaustedRetriesError) ErrorCode() azerrors.ErrorCode { return azerrors.ErrCodeExhaustedRetries }

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. The loop stops at once.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do calls fn until it succeeds or the policy's attempts are used up.
// attempt is passed to fn numbered from 0.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T

	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = ContextSleep
	}
	name := p.Name
	if name == "" {
		name = "operation"
	}

	schedule := p.backOff()
	var lastErr error
	attempts := 0
	for attempt := 0; attempt < maxAttempts; attempt++ {
		attempts++
		v, err := fn(ctx, attempt)
		if err == nil {
			retryAttemptsTotal.WithLabelValues(name, "success").Inc()
			return v, nil
		}
		retryAttemptsTotal.WithLabelValues(name, "error").Inc()
		lastErr = err

		slog.Warn("attempt failed",
			"operation", name,
			"attempt", attempt+1,
			"max_attempts", maxAttempts,
			"error", err,
		)

		var perm *permanentError
		if errors.As(err, &perm) {
			lastErr = perm.err
			break
		}
		if attempt == maxAttempts-1 {
			break
		}
		if err := sleep(ctx, schedule.NextBackOff()); err != nil {
			lastErr = fmt.Errorf("%w (last error: %v)", err, lastErr)
			break
		}
	}

	exhausted := &ExhaustedRetriesError{Operation: name, Attempts: attempts, LastError: lastErr}
	slog.Error("giving up", "operation", name, "attempts", attempts, "error", lastErr)
	return zero, exhausted
}
