/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package rgdoc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NVIDIA/azops/pkg/artifact"
	"github.com/NVIDIA/azops/pkg/command"
	"github.com/NVIDIA/azops/pkg/fanout"
	"github.com/NVIDIA/azops/pkg/llm"
)

// Artifact file names inside a group's directory.
const (
	TemplateFile = "template.json"
	SummaryFile  = "summary.md"
)

// DefaultOutputDir is where artifacts go when no location is configured.
const DefaultOutputDir = "./arm_templates"

// Status of a processed group.
const (
	StatusGenerated = "generated"
	StatusSkipped   = "skipped"
)

// Outcome describes what happened to one resource group.
type Outcome struct {
	ResourceGroup string `json:"resourceGroup" yaml:"resourceGroup"`
	Status        string `json:"status" yaml:"status"`
	SummaryURL    string `json:"summaryURL" yaml:"summaryURL"`
}

// Documenter generates resource group summaries.
type Documenter struct {
	// AZ issues the CLI calls. Required.
	AZ *command.AzureCLI

	// LLM produces the summaries. Wrap it in llm.ResilientClient to retry.
	LLM llm.Client

	// Store receives the artifacts. Required.
	Store *artifact.Store

	// Force regenerates summaries and re-exports templates that already exist.
	Force bool

	// Concurrency bounds the number of groups processed at once.
	Concurrency int

	// Now returns the date written to the front matter. Nil uses time.Now.
	Now func() time.Time
}

// ResourceGroups lists the names of all resource groups in the subscription.
func (d *Documenter) ResourceGroups(ctx context.Context) ([]string, error) {
	groups, err := d.AZ.Lines(ctx, "group", "list", "--query", "[].name")
	if err != nil {
		return nil, fmt.Errorf("failed to list resource groups: %w", err)
	}
	return groups, nil
}

// Run documents every group. Failed groups are reported, not returned.
func (d *Documenter) Run(ctx context.Context, groups []string) *fanout.Report[Outcome] {
	if len(groups) == 0 {
		slog.Warn("no resource groups found")
	}

	return fanout.Map(ctx, groups, func(ctx context.Context, rg string) ([]Outcome, error) {
		out, err := d.Document(ctx, rg)
		if err != nil {
			return nil, err
		}
		return []Outcome{*out}, nil
	},
		fanout.WithName("rgdoc"),
		fanout.WithLimit(d.Concurrency),
	)
}

// Document processes a single resource group.
func (d *Documenter) Document(ctx context.Context, rg string) (*Outcome, error) {
	if d.AZ == nil || d.LLM == nil || d.Store == nil {
		return nil, fmt.Errorf("documenter is not fully configured")
	}
	out := &Outcome{ResourceGroup: rg, SummaryURL: d.Store.URL(rg, SummaryFile)}

	if !d.Force {
		exists, err := d.Store.Exists(ctx, rg, SummaryFile)
		if err != nil {
			return nil, err
		}
		if exists {
			slog.Info("summary exists, skipping", "resource_group", rg)
			out.Status = StatusSkipped
			return out, nil
		}
	}

	template, err := d.template(ctx, rg)
	if err != nil {
		return nil, err
	}

	tags, err := ExtractTags(template)
	if err != nil {
		return nil, err
	}

	slog.Info("generating summary", "resource_group", rg)
	resp, err := d.LLM.Complete(ctx, &llm.Request{Messages: Prompt(rg, template)})
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary for %s: %w", rg, err)
	}

	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	md, err := RenderMarkdown(rg, tags, resp.Content, now())
	if err != nil {
		return nil, err
	}

	if err := d.Store.Write(ctx, md, rg, SummaryFile); err != nil {
		return nil, err
	}
	slog.Info("markdown summary saved", "resource_group", rg, "url", out.SummaryURL)

	out.Status = StatusGenerated
	return out, nil
}

// template returns the stored template or exports it.
func (d *Documenter) template(ctx context.Context, rg string) ([]byte, error) {
	if !d.Force {
		exists, err := d.Store.Exists(ctx, rg, TemplateFile)
		if err != nil {
			return nil, err
		}
		if exists {
			return d.Store.Read(ctx, rg, TemplateFile)
		}
	}

	slog.Info("exporting template", "resource_group", rg)
	data, err := d.AZ.Raw(ctx, "group", "export", "--name", rg, "--include-parameter-default-value")
	if err != nil {
		return nil, fmt.Errorf("failed to export template for %s: %w", rg, err)
	}
	if d.Force {
		return data, d.Store.Write(ctx, data, rg, TemplateFile)
	}
	// another run may have exported the template in the meantime; its copy wins
	wrote, err := d.Store.WriteIfAbsent(ctx, data, rg, TemplateFile)
	if err != nil {
		return nil, err
	}
	if !wrote {
		slog.Info("template exported concurrently, using stored copy", "resource_group", rg)
		return d.Store.Read(ctx, rg, TemplateFile)
	}
	return data, nil
}
