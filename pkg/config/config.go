// Package config loads azops settings from the environment.
//
// Settings are read once, at command start, into a Config. Components take
// explicit options built from it and never read the environment themselves.
//
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//	runner := command.NewExecRunner(cfg.AzPath, command.WithTimeout(cfg.CommandTimeout))
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/NVIDIA/azops/pkg/defaults"
	azerrors "github.com/NVIDIA/azops/pkg/errors"
	"github.com/NVIDIA/azops/pkg/llm"
)

// Config holds the environment driven settings.
type Config struct {
	// Chat endpoint
	LLMProvider string `env:"AZOPS_LLM_PROVIDER" envDefault:"openai"`

	OpenAIBaseURL string `env:"OPENAI_API_BASE_URL"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"OPENAI_MODEL"`

	AzureOpenAIEndpoint   string `env:"AZURE_OPENAI_ENDPOINT"`
	AzureOpenAIAPIKey     string `env:"AZURE_OPENAI_API_KEY"`
	AzureOpenAIDeployment string `env:"AZURE_OPENAI_DEPLOYMENT"`
	AzureOpenAIAPIVersion string `env:"AZURE_OPENAI_API_VERSION"`

	AnthropicBaseURL string `env:"ANTHROPIC_BASE_URL"`
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel   string `env:"ANTHROPIC_MODEL"`

	// Command runner
	AzPath         string        `env:"AZOPS_AZ_PATH"`
	CommandTimeout time.Duration `env:"AZOPS_COMMAND_TIMEOUT"`
	AzQPS          float64       `env:"AZOPS_AZ_QPS"`

	// Work scheduling
	Concurrency   int           `env:"AZOPS_CONCURRENCY"`
	RetryAttempts int           `env:"AZOPS_RETRY_ATTEMPTS"`
	RetryBase     time.Duration `env:"AZOPS_RETRY_BASE"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Default returns a Config populated with the package defaults.
func Default() *Config {
	return &Config{
		LLMProvider:    llm.ProviderOpenAI,
		OpenAIModel:    defaults.OpenAIModel,
		AnthropicModel: defaults.AnthropicModel,
		AzPath:         defaults.AzExecutable,
		CommandTimeout: defaults.CommandTimeout,
		AzQPS:          defaults.CommandRateLimit,
		Concurrency:    defaults.FanOutConcurrency,
		RetryAttempts:  defaults.RetryMaxAttempts,
		RetryBase:      defaults.RetryBase,
		LogLevel:       "info",
	}
}

// Load reads the process environment.
func Load() (*Config, error) {
	return LoadFrom(os.Environ())
}

// LoadFrom reads the given KEY=VALUE pairs instead of the process environment.
func LoadFrom(environ []string) (*Config, error) {
	cfg := Default()
	if err := env.ParseWithOptions(cfg, env.Options{Environment: toMap(environ)}); err != nil {
		return nil, azerrors.Wrap(azerrors.ErrCodeConfigInvalid, "failed to parse environment", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	if !slices.Contains(llm.Providers, c.LLMProvider) {
		return azerrors.New(azerrors.ErrCodeConfigInvalid,
			fmt.Sprintf("AZOPS_LLM_PROVIDER: %q, supported values: %v", c.LLMProvider, llm.Providers))
	}
	if c.AzPath == "" {
		return azerrors.New(azerrors.ErrCodeConfigInvalid, "AZOPS_AZ_PATH must not be empty")
	}
	if c.Concurrency < 0 {
		return azerrors.New(azerrors.ErrCodeConfigInvalid, "AZOPS_CONCURRENCY must not be negative")
	}
	if c.RetryAttempts < 1 {
		return azerrors.New(azerrors.ErrCodeConfigInvalid, "AZOPS_RETRY_ATTEMPTS must be at least 1")
	}
	if c.RetryBase < 0 || c.CommandTimeout < 0 || c.AzQPS < 0 {
		return azerrors.New(azerrors.ErrCodeConfigInvalid, "durations and rates must not be negative")
	}
	return nil
}

// ValidateLLM checks the chat endpoint settings of the selected provider.
func (c *Config) ValidateLLM() error {
	var missing []string
	switch c.LLMProvider {
	case llm.ProviderAzure:
		if c.AzureOpenAIEndpoint == "" {
			missing = append(missing, "AZURE_OPENAI_ENDPOINT")
		}
		if c.AzureOpenAIAPIKey == "" {
			missing = append(missing, "AZURE_OPENAI_API_KEY")
		}
		if c.AzureOpenAIDeployment == "" {
			missing = append(missing, "AZURE_OPENAI_DEPLOYMENT")
		}
	case llm.ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			missing = append(missing, "ANTHROPIC_API_KEY")
		}
	default:
		if c.OpenAIBaseURL == "" {
			missing = append(missing, "OPENAI_API_BASE_URL")
		}
		if c.OpenAIAPIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	}
	if len(missing) > 0 {
		return azerrors.New(azerrors.ErrCodeConfigInvalid,
			fmt.Sprintf("%s provider requires %s", c.LLMProvider, strings.Join(missing, ", ")))
	}
	return nil
}

// LLM returns the chat client settings of the selected provider.
func (c *Config) LLM() llm.Config {
	cfg := llm.Config{Provider: c.LLMProvider}
	switch c.LLMProvider {
	case llm.ProviderAzure:
		cfg.Endpoint = c.AzureOpenAIEndpoint
		cfg.APIKey = c.AzureOpenAIAPIKey
		cfg.Deployment = c.AzureOpenAIDeployment
		cfg.APIVersion = c.AzureOpenAIAPIVersion
	case llm.ProviderAnthropic:
		cfg.BaseURL = c.AnthropicBaseURL
		cfg.APIKey = c.AnthropicAPIKey
		cfg.Model = c.AnthropicModel
	default:
		cfg.BaseURL = c.OpenAIBaseURL
		cfg.APIKey = c.OpenAIAPIKey
		cfg.Model = c.OpenAIModel
	}
	return cfg
}

// LoadEnvFile sets the variables declared in the dotenv file at path in the
// process environment. Variables that are already set keep their value.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return azerrors.Wrap(azerrors.ErrCodeConfigInvalid, "failed to load env file "+path, err)
	}
	return nil
}

func toMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			m[k] = v
		}
	}
	return m
}
