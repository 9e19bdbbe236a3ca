/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"context"

	azerrors "github.com/NVIDIA/azops/pkg/errors"
)

// Role tags a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged chat message.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// SystemMessage returns a system message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage returns a user message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Request is a single chat completion request.
type Request struct {
	// Model overrides the client's configured model or deployment when set.
	Model string

	// Messages in conversation order.
	Messages []Message
}

// Response carries the first completion of a chat response.
type Response struct {
	Content      string
	Model        string
	FinishReason string
}

// Client issues chat completion requests.
// Implementations must be safe for concurrent use.
type Client interface {
	Complete(ctx context.Context, req *Request) (*Response, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req *Request) (*Response, error)

// Complete implements Client.
func (f ClientFunc) Complete(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// ErrEmptyCompletion is returned when a response parses but carries no text.
var ErrEmptyCompletion = azerrors.New(azerrors.ErrCodeEmptyCompletion, "completion contained no content")

func validateRequest(req *Request) error {
	if req == nil || len(req.Messages) == 0 {
		return azerrors.New(azerrors.ErrCodeInvalidRequest, "chat request must contain at least one message")
	}
	return nil
}
