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

	"github.com/NVIDIA/azops/pkg/header"
	"github.com/NVIDIA/azops/pkg/inventory"
	"github.com/NVIDIA/azops/pkg/serializer"
)

// Document kinds.
const (
	kindIPInventory      = "IPInventory"
	kindNetworkInventory = "NetworkInventory"
)

// inventoryDocument is the structured form of an inventory, used for the
// json and yaml formats. csv and table write the rows only.
type inventoryDocument struct {
	header.Header `json:",inline" yaml:",inline"`

	Rows     inventory.Rows    `json:"rows" yaml:"rows"`
	Failures map[string]string `json:"failures,omitempty" yaml:"failures,omitempty"`
}

var excludeFlag = &cli.StringSliceFlag{
	Name:    "exclude",
	Aliases: []string{"x"},
	Usage:   "drop rows whose resource name matches a wildcard pattern (can be repeated)",
}

func (a *app) inventoryCmd() *cli.Command {
	return &cli.Command{
		Name:    "inventory",
		Aliases: []string{"inv"},
		Usage:   "Collect network inventories",
		Commands: []*cli.Command{
			a.inventoryIPsCmd(),
			a.inventoryNetworksCmd(),
		},
	}
}

func (a *app) inventoryIPsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "ips",
		EnableShellCompletion: true,
		Usage:                 "List IP addresses of the resources in the current subscription",
		Description: `Runs one collector per resource type and writes one row per address:
  - vm: public and private addresses of every NIC of every VM
  - public-ip, app-gateway, private-endpoint, nic
  - mysql, postgres: server fully qualified domain names
  - private-dns: A records of every private DNS zone

A failing collector does not stop the others; its failure is logged and, for
json and yaml output, recorded in the document.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "types",
				Aliases: []string{"t"},
				Usage:   fmt.Sprintf("collectors to run %v (default: all)", inventory.TypeNames()),
			},
			excludeFlag,
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   inventory.IPAddressesFile,
				Usage:   "output file path, '-' for stdout",
			},
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			output := cmd.String("output")
			outFormat, err := parseOutputFormat(cmd, output)
			if err != nil {
				return err
			}

			types, err := inventory.ParseTypes(cmd.StringSlice("types"))
			if err != nil {
				return err
			}

			inv := &inventory.IPInventory{
				Factory:     inventory.NewDefaultFactory(a.azureCLI()),
				Types:       types,
				Exclude:     cmd.StringSlice("exclude"),
				Concurrency: a.concurrency,
			}
			res, err := inv.Collect(ctx)
			if err != nil {
				return fmt.Errorf("failed to collect ip addresses: %w", err)
			}

			if err := a.writeInventory(ctx, kindIPInventory, outFormat, output, res); err != nil {
				return err
			}
			return a.finish(ctx, len(res.Failures))
		},
	}
}

func (a *app) inventoryNetworksCmd() *cli.Command {
	return &cli.Command{
		Name:                  "networks",
		EnableShellCompletion: true,
		Usage:                 "List public IPs and virtual networks of every subscription",
		Description: `Lists the subscriptions visible to the signed-in account, then collects the
public IP addresses and virtual network address prefixes of each one. Rows carry
the subscription id.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "subscription",
				Usage: "restrict the run to a subscription id (can be repeated, default: all)",
			},
			excludeFlag,
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   inventory.SubscriptionsFile,
				Usage:   "output file path, '-' for stdout",
			},
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			output := cmd.String("output")
			outFormat, err := parseOutputFormat(cmd, output)
			if err != nil {
				return err
			}

			inv := &inventory.NetworkInventory{
				AZ:            a.azureCLI(),
				Subscriptions: cmd.StringSlice("subscription"),
				Exclude:       cmd.StringSlice("exclude"),
				Concurrency:   a.concurrency,
			}
			res, err := inv.Collect(ctx)
			if err != nil {
				return err
			}

			if err := a.writeInventory(ctx, kindNetworkInventory, outFormat, output, res); err != nil {
				return err
			}
			return a.finish(ctx, len(res.Failures))
		},
	}
}

func (a *app) writeInventory(ctx context.Context, kind string, format serializer.Format, output string, res *inventory.Result) error {
	var v any = res.Rows
	if format == serializer.FormatJSON || format == serializer.FormatYAML {
		v = &inventoryDocument{
			Header:   *header.New(kind, header.WithRunID(a.runID)),
			Rows:     res.Rows,
			Failures: failureMessages(res.Failures),
		}
	}
	if err := writeOutput(ctx, format, output, v); err != nil {
		return err
	}
	slog.Info("inventory written", "kind", kind, "rows", len(res.Rows), "output", output, "format", format)
	return nil
}
