/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package inventory

import (
	"context"
	"slices"
)

// Resource types written to the ResourceType column.
const (
	ResourceVM                  = "VM"
	ResourcePublicIP            = "PublicIP"
	ResourceAppGateway          = "AppGateway"
	ResourcePrivateEndpoint     = "PrivateEndpoint"
	ResourceMySQLFlexibleServer = "MySQLFlexibleServer"
	ResourcePostgreSQLServer    = "PostgreSQLServer"
	ResourcePrivateDNSZone      = "PrivateDNSZone"
	ResourceNetworkInterface    = "NetworkInterface"
	ResourceVirtualNetwork      = "VirtualNetwork"
)

// Values of the IPType column.
const (
	IPTypePrivate = "Private"
	IPTypePublic  = "Public"
)

// Row is one address of one resource.
type Row struct {
	ResourceType  string `json:"resourceType" yaml:"resourceType"`
	ResourceName  string `json:"resourceName" yaml:"resourceName"`
	ResourceGroup string `json:"resourceGroup" yaml:"resourceGroup"`
	Location      string `json:"location" yaml:"location"`
	IPAddress     string `json:"ipAddress" yaml:"ipAddress"`
	IPType        string `json:"ipType" yaml:"ipType"`
	Subscription  string `json:"subscription,omitempty" yaml:"subscription,omitempty"`
}

// Rows renders as CSV. The Subscription column is only present when at least
// one row carries a subscription.
type Rows []Row

var baseHeader = []string{"ResourceType", "ResourceName", "ResourceGroup", "Location", "IPAddress", "IPType"}

func (r Rows) withSubscription() bool {
	return slices.ContainsFunc(r, func(row Row) bool { return row.Subscription != "" })
}

// Header implements serializer.Tabular.
func (r Rows) Header() []string {
	h := slices.Clone(baseHeader)
	if r.withSubscription() {
		h = append(h, "Subscription")
	}
	return h
}

// Records implements serializer.Tabular.
func (r Rows) Records() [][]string {
	withSub := r.withSubscription()
	out := make([][]string, 0, len(r))
	for _, row := range r {
		rec := []string{row.ResourceType, row.ResourceName, row.ResourceGroup, row.Location, row.IPAddress, row.IPType}
		if withSub {
			rec = append(rec, row.Subscription)
		}
		out = append(out, rec)
	}
	return out
}

// Collector gathers the rows of one resource type.
// All collectors must support context-based cancellation.
type Collector interface {
	Collect(ctx context.Context) ([]Row, error)
}

// CollectorFunc adapts a function to the Collector interface.
type CollectorFunc func(ctx context.Context) ([]Row, error)

// Collect implements Collector.
func (f CollectorFunc) Collect(ctx context.Context) ([]Row, error) {
	return f(ctx)
}

// resource holds the fields shared by every listed resource.
type resource struct {
	Name          string `json:"name"`
	ResourceGroup string `json:"resourceGroup"`
	Location      string `json:"location"`
}

type idRef struct {
	ID string `json:"id"`
}

type ipConfiguration struct {
	PrivateIPAddress string `json:"privateIPAddress"`
	PublicIPAddress  *idRef `json:"publicIPAddress"`
}

func (r resource) row(resourceType, ip, ipType string) Row {
	return Row{
		ResourceType:  resourceType,
		ResourceName:  r.Name,
		ResourceGroup: r.ResourceGroup,
		Location:      r.Location,
		IPAddress:     ip,
		IPType:        ipType,
	}
}
