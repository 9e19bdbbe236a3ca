/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package dbref

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/NVIDIA/azops/pkg/command"
	"github.com/NVIDIA/azops/pkg/fanout"
	"github.com/NVIDIA/azops/pkg/header"
)

const bytesPerGB = 1024 * 1024 * 1024

// Generator queries the CLI for server reference data.
type Generator struct {
	// AZ issues the CLI calls. Required.
	AZ *command.AzureCLI

	// RunID is stamped in the document header.
	RunID string
}

// Target identifies the server to document.
type Target struct {
	Kind          Kind
	Server        string
	ResourceGroup string
}

// section fills one part of a Reference. Apply runs after all queries finished.
type section struct {
	name  string
	fetch func(ctx context.Context) (func(*Reference), error)
}

// Generate builds the reference for t.
func (g *Generator) Generate(ctx context.Context, t Target) (*Reference, error) {
	if t.Server == "" || t.ResourceGroup == "" {
		return nil, fmt.Errorf("server name and resource group are required")
	}
	cmds, err := commandsFor(t.Kind, t.Server, t.ResourceGroup)
	if err != nil {
		return nil, err
	}

	slog.Info("generating server reference", "server", t.Server, "kind", t.Kind, "resource_group", t.ResourceGroup)

	info, err := g.serverInfo(ctx, t, cmds)
	if err != nil {
		return nil, err
	}

	ref := newReference()
	ref.Header = *header.New(ReferenceKind,
		header.WithRunID(g.RunID),
		header.WithMetadata("server", t.Server),
		header.WithMetadata("server-type", string(t.Kind)),
	)
	ref.GeneralInformation = *info
	// server info is fetched once and reused
	ref.Authentication = Authentication{AdministratorLogin: info.AdministratorLogin}

	sections := []section{
		{name: SectionDatabases, fetch: func(ctx context.Context) (func(*Reference), error) {
			dbs, err := g.databases(ctx, t.Kind, cmds)
			return func(r *Reference) { r.Databases = dbs }, err
		}},
		{name: SectionFirewallRules, fetch: func(ctx context.Context) (func(*Reference), error) {
			rules, err := g.firewallRules(ctx, cmds)
			return func(r *Reference) { r.Networking.FirewallRules = rules }, err
		}},
		{name: SectionPrivateEndpoints, fetch: func(ctx context.Context) (func(*Reference), error) {
			eps, err := g.privateEndpoints(ctx, t, cmds)
			return func(r *Reference) { r.Networking.PrivateEndpoints = eps }, err
		}},
	}
	// only SQL servers expose virtual network rules
	if t.Kind == KindSQL {
		sections = append(sections, section{name: SectionVNetRules, fetch: func(ctx context.Context) (func(*Reference), error) {
			rules, err := g.vnetRules(ctx, t)
			return func(r *Reference) { r.Networking.VNetRules = rules }, err
		}})
	}

	report := fanout.Map(ctx, sections, func(ctx context.Context, s section) ([]func(*Reference), error) {
		apply, err := s.fetch(ctx)
		if err != nil {
			return nil, err
		}
		return []func(*Reference){apply}, nil
	},
		fanout.WithName("dbref"),
		fanout.WithLabel(func(s section) string { return s.name }),
	)

	for _, apply := range report.Rows {
		apply(ref)
	}
	for _, f := range report.Failures {
		if ref.Errors == nil {
			ref.Errors = make(map[string]string)
		}
		ref.Errors[f.Label] = f.Err.Error()
	}

	slog.Info("server reference complete",
		"server", t.Server,
		"databases", len(ref.Databases),
		"failed_sections", len(ref.Errors),
	)
	return ref, nil
}

func (g *Generator) serverInfo(ctx context.Context, t Target, cmds commands) (*GeneralInformation, error) {
	var srv struct {
		FQDN               string            `json:"fullyQualifiedDomainName"`
		AdministratorLogin string            `json:"administratorLogin"`
		Location           string            `json:"location"`
		Tags               map[string]string `json:"tags"`
	}
	if err := g.AZ.JSON(ctx, &srv, cmds.show...); err != nil {
		return nil, fmt.Errorf("failed to show server %s: %w", t.Server, err)
	}

	var acct Subscription
	if err := g.AZ.JSON(ctx, &acct, "account", "show"); err != nil {
		return nil, fmt.Errorf("failed to show account: %w", err)
	}

	deps := []string{}
	if d := srv.Tags["dependencies"]; d != "" {
		deps = strings.Split(d, ",")
	}

	return &GeneralInformation{
		ServerName:         srv.FQDN,
		ResourceGroup:      t.ResourceGroup,
		Subscription:       acct,
		Region:             srv.Location,
		Environment:        srv.Tags["environment"],
		DeploymentDate:     srv.Tags["deploymentDate"],
		Owner:              srv.Tags["owner"],
		Purpose:            srv.Tags["purpose"],
		Dependencies:       deps,
		AdministratorLogin: srv.AdministratorLogin,
	}, nil
}

func (g *Generator) databases(ctx context.Context, kind Kind, cmds commands) ([]Database, error) {
	var dbs []struct {
		Name string            `json:"name"`
		Tags map[string]string `json:"tags"`
		SKU  *struct {
			Name string `json:"name"`
		} `json:"sku"`
		MaxSizeBytes int64 `json:"maxSizeBytes"`
	}
	if err := g.AZ.JSON(ctx, &dbs, cmds.databases...); err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}

	out := make([]Database, 0, len(dbs))
	for _, db := range dbs {
		entry := Database{
			Name:        db.Name,
			Purpose:     db.Tags["purpose"],
			Impact:      db.Tags["impact"],
			Sensitivity: db.Tags["sensitivity"],
		}
		if kind == KindSQL {
			if db.SKU != nil {
				entry.SKU = db.SKU.Name
			}
			size := db.MaxSizeBytes / bytesPerGB
			entry.SizeGB = &size
		}
		out = append(out, entry)
	}
	return out, nil
}

func (g *Generator) firewallRules(ctx context.Context, cmds commands) ([]FirewallRule, error) {
	var rules []struct {
		Name           string `json:"name"`
		StartIPAddress string `json:"startIpAddress"`
		EndIPAddress   string `json:"endIpAddress"`
	}
	if err := g.AZ.JSON(ctx, &rules, cmds.firewall...); err != nil {
		return nil, fmt.Errorf("failed to list firewall rules: %w", err)
	}

	out := make([]FirewallRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, FirewallRule{Name: r.Name, StartIP: r.StartIPAddress, EndIP: r.EndIPAddress})
	}
	return out, nil
}

func (g *Generator) vnetRules(ctx context.Context, t Target) ([]VNetRule, error) {
	var rules []struct {
		Name                   string `json:"name"`
		VirtualNetworkSubnetID string `json:"virtualNetworkSubnetId"`
	}
	if err := g.AZ.JSON(ctx, &rules, "sql", "server", "vnet-rule", "list", "-g", t.ResourceGroup, "--server", t.Server); err != nil {
		return nil, fmt.Errorf("failed to list vnet rules: %w", err)
	}

	out := make([]VNetRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, VNetRule{Name: r.Name, VNetSubnetID: r.VirtualNetworkSubnetID})
	}
	return out, nil
}

func (g *Generator) privateEndpoints(ctx context.Context, t Target, cmds commands) ([]PrivateEndpoint, error) {
	var conns []struct {
		Name       string `json:"name"`
		Properties struct {
			PrivateLinkServiceConnectionState struct {
				Status string `json:"status"`
			} `json:"privateLinkServiceConnectionState"`
			PrivateEndpoint struct {
				ID string `json:"id"`
			} `json:"privateEndpoint"`
		} `json:"properties"`
	}
	if err := g.AZ.JSON(ctx, &conns, "network", "private-endpoint-connection", "list",
		"--resource-group", t.ResourceGroup, "--name", t.Server, "--type", cmds.resourceType); err != nil {
		return nil, fmt.Errorf("failed to list private endpoint connections: %w", err)
	}

	out := make([]PrivateEndpoint, 0, len(conns))
	for _, c := range conns {
		peID := c.Properties.PrivateEndpoint.ID
		if peID == "" {
			continue
		}

		var pe struct {
			IPConfigurations []struct {
				PrivateIPAddress string `json:"privateIPAddress"`
				Subnet           struct {
					ID string `json:"id"`
				} `json:"subnet"`
			} `json:"ipConfigurations"`
			CustomDNSConfigs []struct {
				FQDN string `json:"fqdn"`
			} `json:"customDnsConfigs"`
		}
		if err := g.AZ.JSON(ctx, &pe, "network", "private-endpoint", "show", "--ids", peID); err != nil {
			return nil, fmt.Errorf("failed to show private endpoint %s: %w", peID, err)
		}

		entry := PrivateEndpoint{
			Name:   c.Name,
			Status: c.Properties.PrivateLinkServiceConnectionState.Status,
		}
		if len(pe.CustomDNSConfigs) > 0 {
			entry.PrivateLinkResource = pe.CustomDNSConfigs[0].FQDN
		}
		if len(pe.IPConfigurations) > 0 {
			entry.VNetSubnet = pe.IPConfigurations[0].Subnet.ID
			entry.PrivateIP = pe.IPConfigurations[0].PrivateIPAddress
		}
		out = append(out, entry)
	}
	return out, nil
}
