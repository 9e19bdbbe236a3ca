/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package inventory

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/NVIDIA/azops/pkg/command"
	azerrors "github.com/NVIDIA/azops/pkg/errors"
)

// Type names a collector.
type Type string

const (
	TypeVM              Type = "vm"
	TypePublicIP        Type = "public-ip"
	TypeAppGateway      Type = "app-gateway"
	TypePrivateEndpoint Type = "private-endpoint"
	TypeMySQL           Type = "mysql"
	TypePostgres        Type = "postgres"
	TypePrivateDNS      Type = "private-dns"
	TypeNIC             Type = "nic"
)

// AllTypes lists every collector type in report order.
var AllTypes = []Type{
	TypeVM,
	TypePublicIP,
	TypeAppGateway,
	TypePrivateEndpoint,
	TypeMySQL,
	TypePostgres,
	TypePrivateDNS,
	TypeNIC,
}

// TypeNames returns the names of AllTypes.
func TypeNames() []string {
	out := make([]string, 0, len(AllTypes))
	for _, t := range AllTypes {
		out = append(out, string(t))
	}
	return out
}

// ParseTypes validates names, suggesting the closest type for typos.
// An empty list selects every type.
func ParseTypes(names []string) ([]Type, error) {
	if len(names) == 0 {
		return AllTypes, nil
	}

	var out []Type
	seen := make(map[Type]bool)
	for _, n := range names {
		t := Type(strings.ToLower(strings.TrimSpace(n)))
		if !isType(t) {
			msg := fmt.Sprintf("unknown inventory type %q", n)
			if s := suggest(string(t)); s != "" {
				msg += fmt.Sprintf(", did you mean %q?", s)
			}
			return nil, azerrors.New(azerrors.ErrCodeInvalidRequest, msg).
				WithContext("supported", strings.Join(TypeNames(), ", "))
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out, nil
}

func isType(t Type) bool {
	for _, k := range AllTypes {
		if k == t {
			return true
		}
	}
	return false
}

func suggest(name string) string {
	best, bestDist := "", 3
	for _, t := range AllTypes {
		if d := levenshtein.ComputeDistance(name, string(t)); d < bestDist {
			best, bestDist = string(t), d
		}
	}
	return best
}

// Factory creates collectors with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	CreateVMCollector() Collector
	CreatePublicIPCollector() Collector
	CreateAppGatewayCollector() Collector
	CreatePrivateEndpointCollector() Collector
	CreateMySQLCollector() Collector
	CreatePostgresCollector() Collector
	CreatePrivateDNSCollector() Collector
	CreateNICCollector() Collector
}

// NewCollector returns the collector for t.
func NewCollector(f Factory, t Type) (Collector, error) {
	switch t {
	case TypeVM:
		return f.CreateVMCollector(), nil
	case TypePublicIP:
		return f.CreatePublicIPCollector(), nil
	case TypeAppGateway:
		return f.CreateAppGatewayCollector(), nil
	case TypePrivateEndpoint:
		return f.CreatePrivateEndpointCollector(), nil
	case TypeMySQL:
		return f.CreateMySQLCollector(), nil
	case TypePostgres:
		return f.CreatePostgresCollector(), nil
	case TypePrivateDNS:
		return f.CreatePrivateDNSCollector(), nil
	case TypeNIC:
		return f.CreateNICCollector(), nil
	default:
		return nil, azerrors.New(azerrors.ErrCodeInvalidRequest, fmt.Sprintf("unknown inventory type %q", t))
	}
}

// DefaultFactory creates collectors backed by the Azure CLI.
type DefaultFactory struct {
	AZ *command.AzureCLI
}

// NewDefaultFactory creates a factory issuing calls through az.
func NewDefaultFactory(az *command.AzureCLI) *DefaultFactory {
	return &DefaultFactory{AZ: az}
}

// CreateVMCollector creates a virtual machine collector.
func (f *DefaultFactory) CreateVMCollector() Collector {
	return &VMCollector{AZ: f.AZ}
}

// CreatePublicIPCollector creates a public IP collector.
func (f *DefaultFactory) CreatePublicIPCollector() Collector {
	return &PublicIPCollector{AZ: f.AZ}
}

// CreateAppGatewayCollector creates an application gateway collector.
func (f *DefaultFactory) CreateAppGatewayCollector() Collector {
	return &AppGatewayCollector{AZ: f.AZ}
}

// CreatePrivateEndpointCollector creates a private endpoint collector.
func (f *DefaultFactory) CreatePrivateEndpointCollector() Collector {
	return &PrivateEndpointCollector{AZ: f.AZ}
}

// CreateMySQLCollector creates a MySQL flexible server collector.
func (f *DefaultFactory) CreateMySQLCollector() Collector {
	return &ServerCollector{
		AZ:           f.AZ,
		ResourceType: ResourceMySQLFlexibleServer,
		Args:         []string{"mysql", "flexible-server", "list"},
	}
}

// CreatePostgresCollector creates a PostgreSQL server collector.
func (f *DefaultFactory) CreatePostgresCollector() Collector {
	return &ServerCollector{
		AZ:           f.AZ,
		ResourceType: ResourcePostgreSQLServer,
		Args:         []string{"postgres", "server", "list"},
	}
}

// CreatePrivateDNSCollector creates a private DNS zone collector.
func (f *DefaultFactory) CreatePrivateDNSCollector() Collector {
	return &PrivateDNSCollector{AZ: f.AZ}
}

// CreateNICCollector creates a network interface collector.
func (f *DefaultFactory) CreateNICCollector() Collector {
	return &NICCollector{AZ: f.AZ}
}
