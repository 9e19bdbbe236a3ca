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

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"

	"github.com/NVIDIA/azops/pkg/defaults"
	azerrors "github.com/NVIDIA/azops/pkg/errors"
)

// chatCompletions issues requests against the chat completions API shared by
// the OpenAI and Azure OpenAI variants.
type chatCompletions struct {
	client   openai.Client
	model    string
	provider string
}

func (c *chatCompletions) complete(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	model := c.model
	if req.Model != "" {
		model = req.Model
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: toOpenAIMessages(req.Messages),
	}

	slog.Debug("requesting chat completion", "provider", c.provider, "model", model, "messages", len(req.Messages))

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%s chat completion failed: %w", c.provider, err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}
	choice := resp.Choices[0]
	if strings.TrimSpace(choice.Message.Content) == "" {
		return nil, ErrEmptyCompletion
	}

	return &Response{
		Content:      choice.Message.Content,
		Model:        resp.Model,
		FinishReason: string(choice.FinishReason),
	}, nil
}

func toOpenAIMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// commonOptions disables the SDK's own retries; retry policy belongs to ResilientClient.
func commonOptions(httpClient *http.Client) []option.RequestOption {
	opts := []option.RequestOption{
		option.WithMaxRetries(0),
		option.WithRequestTimeout(defaults.ChatRequestTimeout),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return opts
}

// OpenAIClient talks to an OpenAI compatible endpoint authenticated by API key.
type OpenAIClient struct {
	chat chatCompletions
}

// NewOpenAIClient returns a client for the endpoint at baseURL.
// An empty baseURL uses the SDK default.
func NewOpenAIClient(baseURL, apiKey, model string, httpClient *http.Client) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, azerrors.New(azerrors.ErrCodeConfigInvalid, "openai API key is required")
	}
	if model == "" {
		model = defaults.OpenAIModel
	}

	opts := commonOptions(httpClient)
	opts = append(opts, option.WithAPIKey(apiKey))
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIClient{chat: chatCompletions{
		client:   openai.NewClient(opts...),
		model:    model,
		provider: ProviderOpenAI,
	}}, nil
}

// Complete implements Client.
func (c *OpenAIClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	return c.chat.complete(ctx, req)
}

// AzureOpenAIClient talks to an Azure OpenAI deployment.
type AzureOpenAIClient struct {
	chat chatCompletions
}

// NewAzureOpenAIClient returns a client for deployment on the resource at endpoint.
func NewAzureOpenAIClient(endpoint, deployment, apiVersion, apiKey string, httpClient *http.Client) (*AzureOpenAIClient, error) {
	switch {
	case endpoint == "":
		return nil, azerrors.New(azerrors.ErrCodeConfigInvalid, "azure openai endpoint is required")
	case deployment == "":
		return nil, azerrors.New(azerrors.ErrCodeConfigInvalid, "azure openai deployment is required")
	case apiKey == "":
		return nil, azerrors.New(azerrors.ErrCodeConfigInvalid, "azure openai API key is required")
	}
	if apiVersion == "" {
		apiVersion = defaults.AzureOpenAIAPIVersion
	}

	opts := commonOptions(httpClient)
	opts = append(opts,
		azure.WithEndpoint(endpoint, apiVersion),
		azure.WithAPIKey(apiKey),
	)

	return &AzureOpenAIClient{chat: chatCompletions{
		client:   openai.NewClient(opts...),
		model:    deployment,
		provider: ProviderAzure,
	}}, nil
}

// Complete implements Client.
func (c *AzureOpenAIClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	return c.chat.complete(ctx, req)
}
