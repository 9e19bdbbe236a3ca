/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"fmt"
	"net/http"
	"strings"

	azerrors "github.com/NVIDIA/azops/pkg/errors"
)

// Supported providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAzure     = "azure"
	ProviderAnthropic = "anthropic"
)

// Providers lists the supported provider names.
var Providers = []string{ProviderOpenAI, ProviderAzure, ProviderAnthropic}

// Config selects and configures a provider.
type Config struct {
	Provider string

	// BaseURL and APIKey address the openai and anthropic providers.
	BaseURL string
	APIKey  string
	Model   string

	// Endpoint, Deployment and APIVersion address the azure provider.
	// APIKey is shared.
	Endpoint   string
	Deployment string
	APIVersion string

	// HTTPClient overrides the transport. Nil uses the SDK default.
	HTTPClient *http.Client
}

// NewClient returns the Client for cfg.Provider. An empty provider means openai.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderOpenAI:
		return NewOpenAIClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.HTTPClient)
	case ProviderAzure:
		return NewAzureOpenAIClient(cfg.Endpoint, cfg.Deployment, cfg.APIVersion, cfg.APIKey, cfg.HTTPClient)
	case ProviderAnthropic:
		return NewAnthropicClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.HTTPClient)
	default:
		return nil, azerrors.New(azerrors.ErrCodeConfigInvalid,
			fmt.Sprintf("unsupported llm provider %q (supported: %s)", cfg.Provider, strings.Join(Providers, ", ")))
	}
}
