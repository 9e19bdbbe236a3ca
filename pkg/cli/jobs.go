/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/azops/pkg/artifact"
	"github.com/NVIDIA/azops/pkg/jobs"
)

func (a *app) jobsCmd() *cli.Command {
	return &cli.Command{
		Name:  "jobs",
		Usage: "Manage container apps jobs",
		Commands: []*cli.Command{
			a.jobsMoveCmd(),
		},
	}
}

func (a *app) jobsMoveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "move",
		EnableShellCompletion: true,
		Usage:                 "Recreate the container apps jobs of a resource group in another one",
		Description: `Reads every job of the source resource group, retargets its document and
creates it in the new resource group and managed environment. The source jobs
are left in place.

The rewrite sets the resource group, the job id, the environment id and the
event stream endpoint. Identity and image replacement, and any other change,
come from flags or an overlay file:

  identity:
    name: jobs-uami
    clientId: 00000000-0000-0000-0000-000000000000
    principalId: 00000000-0000-0000-0000-000000000000
  image: registry.azurecr.io/job:1.2.3
  merge:
    properties:
      configuration:
        replicaTimeout: 1800

Flags take precedence over the overlay file.

# Examples

  azops jobs move --source-resource-group rg-old --new-resource-group rg-new \
    --new-environment env-new --dry-run --output-dir ./jobs`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "source-resource-group",
				Aliases:  []string{"s"},
				Required: true,
				Usage:    "resource group holding the jobs",
			},
			&cli.StringFlag{
				Name:     "new-resource-group",
				Aliases:  []string{"g"},
				Required: true,
				Usage:    "resource group to create the jobs in",
			},
			&cli.StringFlag{
				Name:     "new-environment",
				Aliases:  []string{"e"},
				Required: true,
				Usage:    "managed environment of the new jobs",
			},
			&cli.StringFlag{
				Name:  "location",
				Usage: "region used in the event stream endpoint, e.g. centralus (default: the job's location)",
			},
			&cli.StringFlag{
				Name:  "identity-name",
				Usage: "user assigned identity in the new resource group replacing the job identities",
			},
			&cli.StringFlag{
				Name:  "identity-id",
				Usage: "full resource id of the identity, instead of --identity-name",
			},
			&cli.StringFlag{
				Name:  "client-id",
				Usage: "client id of the identity",
			},
			&cli.StringFlag{
				Name:  "principal-id",
				Usage: "principal id of the identity",
			},
			&cli.StringFlag{
				Name:  "image",
				Usage: "container image replacing the image of every container",
			},
			&cli.StringFlag{
				Name:  "overlay",
				Usage: "YAML overlay file or afs URL",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "write the rewritten documents without creating jobs",
			},
			&cli.StringFlag{
				Name:  "output-dir",
				Usage: "directory or afs URL receiving the rewritten documents as <job>.yaml",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd, cmd.String("output"))
			if err != nil {
				return err
			}

			rw := &jobs.Rewrite{
				ResourceGroup: cmd.String("new-resource-group"),
				Environment:   cmd.String("new-environment"),
				Location:      cmd.String("location"),
				Image:         cmd.String("image"),
			}
			if n, id := cmd.String("identity-name"), cmd.String("identity-id"); n != "" || id != "" {
				rw.Identity = &jobs.Identity{
					Name:        n,
					ResourceID:  id,
					ClientID:    cmd.String("client-id"),
					PrincipalID: cmd.String("principal-id"),
				}
			}
			if path := cmd.String("overlay"); path != "" {
				if err := rw.LoadOverlay(ctx, path); err != nil {
					return err
				}
			}

			m := &jobs.Mover{
				AZ:          a.azureCLI(),
				Rewrite:     rw,
				DryRun:      cmd.Bool("dry-run"),
				Concurrency: a.concurrency,
			}
			if dir := cmd.String("output-dir"); dir != "" {
				m.Store = artifact.New(dir)
			}

			report, err := m.Move(ctx, cmd.String("source-resource-group"))
			if err != nil {
				return fmt.Errorf("failed to move jobs: %w", err)
			}

			if err := writeOutput(ctx, outFormat, cmd.String("output"), report.Rows); err != nil {
				return err
			}
			return a.finish(ctx, len(report.Failures))
		},
	}
}
