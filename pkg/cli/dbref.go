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

	"github.com/NVIDIA/azops/pkg/dbref"
)

func (a *app) dbrefCmd() *cli.Command {
	return &cli.Command{
		Name:                  "dbref",
		EnableShellCompletion: true,
		Usage:                 "Generate a reference document for a database server",
		Description: `Collects general information, databases, firewall rules, virtual network
rules (sql only) and private endpoints of a SQL, PostgreSQL flexible or MySQL
flexible server. Placeholder sections are included for manual completion.

A section that cannot be queried is left empty and its error is recorded under
"errors" in the document.

# Examples

  azops dbref -t sql -s orders -g rg-data
  azops dbref -t postgres -s analytics -g rg-data -o analytics.yaml`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "type",
				Aliases:  []string{"t"},
				Required: true,
				Usage:    fmt.Sprintf("server type %v", dbref.Kinds),
			},
			&cli.StringFlag{
				Name:     "server",
				Aliases:  []string{"s"},
				Required: true,
				Usage:    "server name, without the domain suffix",
			},
			&cli.StringFlag{
				Name:     "resource-group",
				Aliases:  []string{"g"},
				Required: true,
				Usage:    "resource group of the server",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file path, '-' for stdout (default: <server>_<type>_reference.json)",
			},
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			kind, err := dbref.ParseKind(cmd.String("type"))
			if err != nil {
				return err
			}
			server := cmd.String("server")

			output := cmd.String("output")
			if output == "" {
				output = dbref.FileName(server, kind)
			}
			outFormat, err := parseOutputFormat(cmd, output)
			if err != nil {
				return err
			}

			g := &dbref.Generator{AZ: a.azureCLI(), RunID: a.runID}
			ref, err := g.Generate(ctx, dbref.Target{
				Kind:          kind,
				Server:        server,
				ResourceGroup: cmd.String("resource-group"),
			})
			if err != nil {
				return fmt.Errorf("failed to generate %s server reference: %w", kind, err)
			}

			if err := writeOutput(ctx, outFormat, output, ref); err != nil {
				return err
			}
			slog.Info("server reference written", "kind", kind, "output", output)

			return a.finish(ctx, len(ref.Errors))
		},
	}
}
