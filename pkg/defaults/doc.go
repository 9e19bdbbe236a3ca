// Package defaults provides centralized configuration constants for azops.
//
// This package defines timeout values, retry parameters, and concurrency limits
// used across the codebase. Centralizing these values keeps the command runner,
// the retry loop, and the fan-out aggregator consistent.
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/NVIDIA/azops/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.ChatRequestTimeout)
//	defer cancel()
//
// # Guidelines
//
//   - Commands: no timeout unless configured, matching plain `az` behavior
//   - Chat calls: 3 attempts, backoff 1s, 2s between attempts
//   - Fan-out: 8 concurrent work items to avoid throttling on the management API
package defaults
