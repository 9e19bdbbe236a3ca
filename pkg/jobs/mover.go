/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package jobs

import (
	"context"
	"fmt"
	"log/slog"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/azops/pkg/artifact"
	"github.com/NVIDIA/azops/pkg/command"
	"github.com/NVIDIA/azops/pkg/fanout"
)

// Job identifies a container apps job.
type Job struct {
	Name          string `json:"name" yaml:"name"`
	ResourceGroup string `json:"resourceGroup" yaml:"resourceGroup"`
}

// Result describes one relocated job.
type Result struct {
	Name                string `json:"name" yaml:"name"`
	SourceResourceGroup string `json:"sourceResourceGroup" yaml:"sourceResourceGroup"`
	TargetID            string `json:"targetId" yaml:"targetId"`
	Created             bool   `json:"created" yaml:"created"`

	// Document is the rewritten job, kept for dry runs.
	Document map[string]any `json:"document,omitempty" yaml:"document,omitempty"`
}

// Mover relocates jobs.
type Mover struct {
	// AZ issues the CLI calls. Required.
	AZ *command.AzureCLI

	// Rewrite retargets each job. Required.
	Rewrite *Rewrite

	// DryRun skips creation and returns the rewritten documents.
	DryRun bool

	// Store, when set, receives each rewritten document as <job>.yaml.
	Store *artifact.Store

	// Concurrency bounds the number of jobs processed at once.
	Concurrency int
}

// List returns the jobs in rg.
func (m *Mover) List(ctx context.Context, rg string) ([]Job, error) {
	var jobs []Job
	if err := m.AZ.JSON(ctx, &jobs, "containerapp", "job", "list", "-g", rg); err != nil {
		return nil, fmt.Errorf("failed to list container jobs in %s: %w", rg, err)
	}
	return jobs, nil
}

// Move relocates every job of sourceRG. Listing failures are returned;
// failures of individual jobs are reported.
func (m *Mover) Move(ctx context.Context, sourceRG string) (*fanout.Report[Result], error) {
	if err := m.Rewrite.Validate(); err != nil {
		return nil, err
	}

	jobs, err := m.List(ctx, sourceRG)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		slog.Info("no container jobs found", "resource_group", sourceRG)
		return &fanout.Report[Result]{}, nil
	}

	slog.Info("moving container jobs",
		"jobs", len(jobs),
		"source", sourceRG,
		"target", m.Rewrite.ResourceGroup,
		"environment", m.Rewrite.Environment,
		"dry_run", m.DryRun,
	)

	return fanout.Map(ctx, jobs, func(ctx context.Context, j Job) ([]Result, error) {
		res, err := m.MoveJob(ctx, j)
		if err != nil {
			return nil, err
		}
		return []Result{*res}, nil
	},
		fanout.WithName("jobs_move"),
		fanout.WithLimit(m.Concurrency),
		fanout.WithLabel(func(j Job) string { return j.Name }),
	), nil
}

// MoveJob relocates a single job.
func (m *Mover) MoveJob(ctx context.Context, j Job) (*Result, error) {
	var doc map[string]any
	if err := m.AZ.JSON(ctx, &doc, "containerapp", "job", "show", "--name", j.Name, "--resource-group", j.ResourceGroup); err != nil {
		return nil, fmt.Errorf("failed to show job %s: %w", j.Name, err)
	}

	if err := m.Rewrite.Apply(doc, j.Name); err != nil {
		return nil, err
	}

	res := &Result{Name: j.Name, SourceResourceGroup: j.ResourceGroup}
	res.TargetID, _ = doc["id"].(string)

	if m.Store != nil {
		y, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to render job %s: %w", j.Name, err)
		}
		if err := m.Store.Write(ctx, y, j.Name+".yaml"); err != nil {
			return nil, err
		}
	}

	if m.DryRun {
		slog.Info("dry run, not creating job", "job", j.Name, "target", res.TargetID)
		res.Document = doc
		return res, nil
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode job %s: %w", j.Name, err)
	}

	slog.Info("creating job", "job", j.Name, "resource_group", m.Rewrite.ResourceGroup, "environment", m.Rewrite.Environment)
	if _, err := m.AZ.Apply(ctx, payload,
		"containerapp", "job", "create",
		"--name", j.Name,
		"--resource-group", m.Rewrite.ResourceGroup,
		"--environment", m.Rewrite.Environment,
		"--yaml", "-",
	); err != nil {
		return nil, fmt.Errorf("failed to create job %s: %w", j.Name, err)
	}

	res.Created = true
	return res, nil
}
