package defaults

import "time"

// Command runner defaults.
const (
	// AzExecutable is the cloud CLI binary looked up on PATH.
	AzExecutable = "az"

	// CommandTimeout is the default per-invocation timeout. Zero disables it.
	CommandTimeout time.Duration = 0

	// CommandRateLimit is the default number of subprocess starts per second.
	// Zero disables rate limiting.
	CommandRateLimit = 0

	// CommandRateBurst is the burst size used when rate limiting is enabled.
	CommandRateBurst = 4
)

// Retry defaults for chat completion calls.
const (
	// RetryMaxAttempts is the number of attempts made before giving up.
	RetryMaxAttempts = 3

	// RetryBase is the backoff time unit; the delay after attempt n is RetryBase * 2^n.
	RetryBase = time.Second

	// RetryMaxDelay caps a single backoff delay.
	RetryMaxDelay = 30 * time.Second
)

// Chat endpoint defaults.
const (
	// OpenAIModel is used when no model is configured.
	OpenAIModel = "gpt-3.5-turbo"

	// AnthropicModel is used when the anthropic provider has no model configured.
	AnthropicModel = "claude-sonnet-4-5-20250929"

	// AnthropicMaxTokens bounds the completion size for the anthropic provider.
	AnthropicMaxTokens = 4096

	// ChatRequestTimeout bounds a single chat completion request.
	ChatRequestTimeout = 120 * time.Second
)

// FanOutConcurrency is the default number of concurrently processed work items.
const FanOutConcurrency = 8

// AzureOpenAIAPIVersion is used when the azure provider has no API version configured.
const AzureOpenAIAPIVersion = "2024-06-01"
