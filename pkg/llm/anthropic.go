/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/NVIDIA/azops/pkg/defaults"
	azerrors "github.com/NVIDIA/azops/pkg/errors"
)

// AnthropicClient talks to the Anthropic Messages API.
type AnthropicClient struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicClient returns a client authenticated by apiKey.
// An empty baseURL uses the SDK default.
func NewAnthropicClient(baseURL, apiKey, model string, httpClient *http.Client) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, azerrors.New(azerrors.ErrCodeConfigInvalid, "anthropic API key is required")
	}
	if model == "" {
		model = defaults.AnthropicModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(defaults.ChatRequestTimeout),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return &AnthropicClient{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: defaults.AnthropicMaxTokens,
	}, nil
}

// Complete implements Client.
func (c *AnthropicClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	model := c.model
	if req.Model != "" {
		model = req.Model
	}

	var system []anthropic.TextBlockParam
	var messages []anthropic.MessageParam
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		Messages:  messages,
		MaxTokens: c.maxTokens,
	}
	if len(system) > 0 {
		params.System = system
	}

	slog.Debug("requesting chat completion", "provider", ProviderAnthropic, "model", model, "messages", len(req.Messages))

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%s chat completion failed: %w", ProviderAnthropic, err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return nil, ErrEmptyCompletion
	}

	return &Response{
		Content:      sb.String(),
		Model:        string(resp.Model),
		FinishReason: string(resp.StopReason),
	}, nil
}
