/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/NVIDIA/azops/pkg/command"
	"github.com/NVIDIA/azops/pkg/fanout"
	"github.com/NVIDIA/azops/pkg/filter"
)

// Default output files.
const (
	IPAddressesFile   = "azure_ip_addresses.csv"
	SubscriptionsFile = "all_subscriptions_resources.csv"
)

// Result is the outcome of an inventory run.
type Result struct {
	Rows     Rows
	Failures []fanout.Failure
}

// Partial reports whether any collector failed.
func (r *Result) Partial() bool {
	return len(r.Failures) > 0
}

// IPInventory runs the selected collectors in one subscription.
type IPInventory struct {
	// Factory creates the collectors. Required.
	Factory Factory

	// Types selects collectors. Empty means all.
	Types []Type

	// Exclude drops rows whose resource name matches any wildcard pattern.
	Exclude []string

	// Concurrency bounds the number of collectors running at once.
	Concurrency int
}

// Collect runs the collectors and returns their rows ordered by collector type.
// Collector failures are reported in the result rather than returned.
func (inv *IPInventory) Collect(ctx context.Context) (*Result, error) {
	if inv.Factory == nil {
		return nil, fmt.Errorf("inventory factory is required")
	}
	types := inv.Types
	if len(types) == 0 {
		types = AllTypes
	}

	type job struct {
		t Type
		c Collector
	}
	jobs := make([]job, 0, len(types))
	for _, t := range types {
		c, err := NewCollector(inv.Factory, t)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job{t: t, c: c})
	}

	slog.Info("collecting ip addresses", "types", len(jobs))

	report := fanout.Map(ctx, jobs, func(ctx context.Context, j job) ([]Row, error) {
		return j.c.Collect(ctx)
	},
		fanout.WithName("inventory_ips"),
		fanout.WithLimit(inv.Concurrency),
		fanout.WithLabel(func(j job) string { return string(j.t) }),
	)

	rows := filter.FilterOut(report.Rows, func(r Row) string { return r.ResourceName }, inv.Exclude)
	sortByResourceType(rows)

	slog.Info("ip address collection complete", "rows", len(rows), "failures", len(report.Failures))
	return &Result{Rows: rows, Failures: report.Failures}, nil
}

var resourceOrder = []string{
	ResourceVM,
	ResourcePublicIP,
	ResourceAppGateway,
	ResourcePrivateEndpoint,
	ResourceMySQLFlexibleServer,
	ResourcePostgreSQLServer,
	ResourcePrivateDNSZone,
	ResourceNetworkInterface,
	ResourceVirtualNetwork,
}

// sortByResourceType restores a stable report order. Rows of one type keep
// the order their collector produced.
func sortByResourceType(rows []Row) {
	rank := func(t string) int {
		if i := slices.Index(resourceOrder, t); i >= 0 {
			return i
		}
		return len(resourceOrder)
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		return rank(a.ResourceType) - rank(b.ResourceType)
	})
}

// NetworkInventory collects public IPs and virtual network address spaces
// from every subscription visible to the account.
type NetworkInventory struct {
	// AZ issues the CLI calls. Required.
	AZ *command.AzureCLI

	// Subscriptions restricts the run. Empty means every subscription.
	Subscriptions []string

	// Exclude drops rows whose resource name matches any wildcard pattern.
	Exclude []string

	// Concurrency bounds the number of CLI listings running at once.
	Concurrency int
}

type subscriptionJob struct {
	subscription string
	collector    Collector
	kind         string
}

// Collect lists subscriptions and fans out two listings per subscription.
// Failing to list subscriptions is fatal; a failing listing is reported.
func (n *NetworkInventory) Collect(ctx context.Context) (*Result, error) {
	if n.AZ == nil {
		return nil, fmt.Errorf("azure cli is required")
	}

	subs := n.Subscriptions
	if len(subs) == 0 {
		if err := n.AZ.JSON(ctx, &subs, "account", "list", "--query", "[].id"); err != nil {
			return nil, fmt.Errorf("failed to list subscriptions: %w", err)
		}
	}
	slog.Info("collecting network resources", "subscriptions", len(subs))

	jobs := make([]subscriptionJob, 0, 2*len(subs))
	for _, sub := range subs {
		az := n.AZ.ForSubscription(sub)
		jobs = append(jobs,
			subscriptionJob{subscription: sub, collector: &PublicIPCollector{AZ: az}, kind: "public-ip"},
			subscriptionJob{subscription: sub, collector: &VNetCollector{AZ: az}, kind: "vnet"},
		)
	}

	report := fanout.Map(ctx, jobs, func(ctx context.Context, j subscriptionJob) ([]Row, error) {
		rows, err := j.collector.Collect(ctx)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			rows[i].Subscription = j.subscription
		}
		return rows, nil
	},
		fanout.WithName("inventory_networks"),
		fanout.WithLimit(n.Concurrency),
		fanout.WithLabel(func(j subscriptionJob) string { return j.subscription + "/" + j.kind }),
	)

	rows := filter.FilterOut(report.Rows, func(r Row) string { return r.ResourceName }, n.Exclude)
	sortByResourceType(rows)

	slog.Info("network resource collection complete", "rows", len(rows), "failures", len(report.Failures))
	return &Result{Rows: rows, Failures: report.Failures}, nil
}
