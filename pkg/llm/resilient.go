/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"context"
	"time"

	azerrors "github.com/NVIDIA/azops/pkg/errors"
	"github.com/NVIDIA/azops/pkg/retry"
)

// ResilientClient retries a Client with exponential backoff.
type ResilientClient struct {
	client Client
	policy retry.Policy
}

// ResilientOption configures a ResilientClient.
type ResilientOption func(*ResilientClient)

// WithMaxAttempts sets the total number of attempts per request.
func WithMaxAttempts(n int) ResilientOption {
	return func(c *ResilientClient) {
		c.policy.MaxAttempts = n
	}
}

// WithBackoff sets the backoff time unit.
func WithBackoff(base time.Duration) ResilientOption {
	return func(c *ResilientClient) {
		c.policy.Base = base
	}
}

// WithSleeper replaces the sleep between attempts.
func WithSleeper(s retry.Sleeper) ResilientOption {
	return func(c *ResilientClient) {
		c.policy.Sleep = s
	}
}

// NewResilientClient wraps client.
func NewResilientClient(client Client, opts ...ResilientOption) *ResilientClient {
	c := &ResilientClient{
		client: client,
		policy: retry.DefaultPolicy("chat_completion"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete implements Client. Every retryable failure, including an empty
// completion, consumes an attempt. Invalid requests and configuration errors
// end the loop at once.
func (c *ResilientClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	return retry.Do(ctx, c.policy, func(ctx context.Context, _ int) (*Response, error) {
		resp, err := c.client.Complete(ctx, req)
		if err != nil && !azerrors.Retryable(azerrors.CodeOf(err)) {
			return nil, retry.Permanent(err)
		}
		return resp, err
	})
}
