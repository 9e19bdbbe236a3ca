/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package rgdoc

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/azops/pkg/llm"
)

const systemPrompt = "You are a helpful assistant who provides summaries of Azure ARM templates."

// Prompt returns the chat messages asking for a summary of template.
func Prompt(rg string, template []byte) []llm.Message {
	compact := template
	var buf bytes.Buffer
	if err := json.Compact(&buf, template); err == nil {
		compact = buf.Bytes()
	}
	return []llm.Message{
		llm.SystemMessage(systemPrompt),
		llm.UserMessage(fmt.Sprintf(
			"Provide a detailed markdown summary of the following ARM template for resource group %s: %s",
			rg, compact)),
	}
}

// ExtractTags merges the tags of every resource in template. Later resources
// win on conflicting keys.
func ExtractTags(template []byte) (map[string]string, error) {
	var doc struct {
		Resources []struct {
			Tags map[string]any `json:"tags"`
		} `json:"resources"`
	}
	if err := json.Unmarshal(template, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	tags := make(map[string]string)
	for _, r := range doc.Resources {
		for k, v := range r.Tags {
			tags[k] = fmt.Sprint(v)
		}
	}
	return tags, nil
}

type frontMatter struct {
	Title     string            `yaml:"title"`
	Date      string            `yaml:"date"`
	Internal  bool              `yaml:"internal"`
	AzureTags map[string]string `yaml:"azureTags"`
}

// RenderMarkdown renders the summary document. Tag keys are sorted.
func RenderMarkdown(rg string, tags map[string]string, summary string, date time.Time) ([]byte, error) {
	if tags == nil {
		tags = map[string]string{}
	}
	fm, err := yaml.Marshal(frontMatter{
		Title:     "Resource Group: " + rg,
		Date:      date.Format(time.DateOnly),
		Internal:  true,
		AzureTags: tags,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "# Resource Group: %s\n\n", rg)
	fmt.Fprintf(&b, "**Summary**:\n\n%s\n", strings.TrimSpace(summary))
	return []byte(b.String()), nil
}
