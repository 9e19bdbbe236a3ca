/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/azops/pkg/artifact"
	"github.com/NVIDIA/azops/pkg/rgdoc"
	"github.com/NVIDIA/azops/pkg/serializer"
)

func (a *app) rgdocCmd() *cli.Command {
	return &cli.Command{
		Name:                  "rgdoc",
		EnableShellCompletion: true,
		Usage:                 "Document resource groups with LLM generated summaries",
		Description: `For every resource group, exports the ARM template to
<output-dir>/<group>/template.json and writes <output-dir>/<group>/summary.md:
a markdown summary produced by the configured chat endpoint, with front matter
holding the title, date and the merged resource tags of the template.

Groups that already have a summary are skipped unless --force is set, so an
interrupted run can be resumed.

The chat endpoint is configured through the environment:
  AZOPS_LLM_PROVIDER   openai (default), azure or anthropic
  OPENAI_API_BASE_URL, OPENAI_API_KEY, OPENAI_MODEL
  AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_API_KEY, AZURE_OPENAI_DEPLOYMENT
  ANTHROPIC_API_KEY, ANTHROPIC_MODEL`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "output-dir",
				Value: rgdoc.DefaultOutputDir,
				Usage: "directory or afs URL receiving the artifacts",
			},
			&cli.StringSliceFlag{
				Name:    "resource-group",
				Aliases: []string{"g"},
				Usage:   "document only this resource group (can be repeated, default: all)",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "regenerate existing summaries and re-export existing templates",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd, cmd.String("output"))
			if err != nil {
				return err
			}
			if !cmd.IsSet("format") && cmd.String("output") == "" {
				outFormat = serializer.FormatTable
			}

			chat, err := a.chatClient()
			if err != nil {
				return err
			}

			d := &rgdoc.Documenter{
				AZ:          a.azureCLI(),
				LLM:         chat,
				Store:       artifact.New(cmd.String("output-dir")),
				Force:       cmd.Bool("force"),
				Concurrency: a.concurrency,
			}

			groups := cmd.StringSlice("resource-group")
			if len(groups) == 0 {
				if groups, err = d.ResourceGroups(ctx); err != nil {
					return err
				}
			}

			report := d.Run(ctx, groups)
			slog.Info("resource group documentation complete",
				"groups", len(groups),
				"documented", len(report.Rows),
				"failures", len(report.Failures),
				"output_dir", d.Store.Base(),
			)

			if err := writeOutput(ctx, outFormat, cmd.String("output"), report.Rows); err != nil {
				return fmt.Errorf("failed to write outcome report: %w", err)
			}
			return a.finish(ctx, len(report.Failures))
		},
	}
}
