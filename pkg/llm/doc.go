/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package llm provides chat completion clients behind a single Client interface.
//
// Three providers are supported and selected at configuration time:
//
//   - openai: an OpenAI compatible endpoint addressed by base URL and API key.
//   - azure: an Azure OpenAI resource addressed by endpoint, deployment name
//     and API version. The deployment takes the place of the model.
//   - anthropic: the Anthropic Messages API.
//
// Clients perform exactly one request per Complete call. Wrap them with
// NewResilientClient to retry failed calls with exponential backoff:
//
//	client, err := llm.NewClient(cfg)
//	if err != nil {
//	    return err
//	}
//	rc := llm.NewResilientClient(client, llm.WithMaxAttempts(3))
//	resp, err := rc.Complete(ctx, &llm.Request{
//	    Messages: []llm.Message{
//	        llm.SystemMessage("You summarize templates."),
//	        llm.UserMessage(doc),
//	    },
//	})
//
// A response without any text is reported as ErrEmptyCompletion so that the
// resilient client spends an attempt on it instead of returning an empty
// success.
package llm
