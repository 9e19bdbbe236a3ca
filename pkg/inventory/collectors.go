/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NVIDIA/azops/pkg/command"
)

// publicIPAddress resolves a public IP resource id to its address.
func publicIPAddress(ctx context.Context, az *command.AzureCLI, id string) (string, error) {
	var pip struct {
		IPAddress string `json:"ipAddress"`
	}
	if err := az.JSON(ctx, &pip, "network", "public-ip", "show", "--ids", id); err != nil {
		return "", fmt.Errorf("failed to show public ip %s: %w", id, err)
	}
	return pip.IPAddress, nil
}

// ipConfigRows turns IP configurations into a private row and, when a public
// IP is attached, a public row.
func ipConfigRows(ctx context.Context, az *command.AzureCLI, res resource, resourceType string, configs []ipConfiguration) ([]Row, error) {
	var rows []Row
	for _, cfg := range configs {
		if cfg.PrivateIPAddress != "" {
			rows = append(rows, res.row(resourceType, cfg.PrivateIPAddress, IPTypePrivate))
		}
		if cfg.PublicIPAddress == nil || cfg.PublicIPAddress.ID == "" {
			continue
		}
		ip, err := publicIPAddress(ctx, az, cfg.PublicIPAddress.ID)
		if err != nil {
			return nil, err
		}
		if ip != "" {
			rows = append(rows, res.row(resourceType, ip, IPTypePublic))
		}
	}
	return rows, nil
}

// VMCollector collects the private and public addresses of virtual machine NICs.
type VMCollector struct {
	AZ *command.AzureCLI
}

// Collect implements Collector.
func (c *VMCollector) Collect(ctx context.Context) ([]Row, error) {
	slog.Debug("collecting virtual machine addresses")

	var vms []resource
	if err := c.AZ.JSON(ctx, &vms, "vm", "list"); err != nil {
		return nil, fmt.Errorf("failed to list virtual machines: %w", err)
	}

	var rows []Row
	for _, vm := range vms {
		var nicIDs []string
		if err := c.AZ.JSON(ctx, &nicIDs, "vm", "show", "-g", vm.ResourceGroup, "-n", vm.Name,
			"--query", "networkProfile.networkInterfaces[].id"); err != nil {
			return nil, fmt.Errorf("failed to show virtual machine %s: %w", vm.Name, err)
		}
		for _, nicID := range nicIDs {
			var nic struct {
				IPConfigurations []ipConfiguration `json:"ipConfigurations"`
			}
			if err := c.AZ.JSON(ctx, &nic, "network", "nic", "show", "--ids", nicID); err != nil {
				return nil, fmt.Errorf("failed to show network interface %s: %w", nicID, err)
			}
			r, err := ipConfigRows(ctx, c.AZ, vm, ResourceVM, nic.IPConfigurations)
			if err != nil {
				return nil, err
			}
			rows = append(rows, r...)
		}
	}
	return rows, nil
}

// PublicIPCollector collects allocated public IP addresses.
type PublicIPCollector struct {
	AZ *command.AzureCLI
}

// Collect implements Collector.
func (c *PublicIPCollector) Collect(ctx context.Context) ([]Row, error) {
	slog.Debug("collecting public ip addresses", "subscription", c.AZ.Subscription())

	var pips []struct {
		resource
		IPAddress string `json:"ipAddress"`
	}
	if err := c.AZ.JSON(ctx, &pips, "network", "public-ip", "list"); err != nil {
		return nil, fmt.Errorf("failed to list public ips: %w", err)
	}

	var rows []Row
	for _, pip := range pips {
		// unallocated dynamic addresses have no ipAddress
		if pip.IPAddress != "" {
			rows = append(rows, pip.row(ResourcePublicIP, pip.IPAddress, IPTypePublic))
		}
	}
	return rows, nil
}

// AppGatewayCollector collects application gateway frontend addresses.
type AppGatewayCollector struct {
	AZ *command.AzureCLI
}

// Collect implements Collector.
func (c *AppGatewayCollector) Collect(ctx context.Context) ([]Row, error) {
	slog.Debug("collecting application gateway addresses")

	var gateways []resource
	if err := c.AZ.JSON(ctx, &gateways, "network", "application-gateway", "list"); err != nil {
		return nil, fmt.Errorf("failed to list application gateways: %w", err)
	}

	var rows []Row
	for _, gw := range gateways {
		var frontends []ipConfiguration
		if err := c.AZ.JSON(ctx, &frontends, "network", "application-gateway", "frontend-ip", "list",
			"--gateway-name", gw.Name, "-g", gw.ResourceGroup); err != nil {
			return nil, fmt.Errorf("failed to list frontends of %s: %w", gw.Name, err)
		}
		r, err := ipConfigRows(ctx, c.AZ, gw, ResourceAppGateway, frontends)
		if err != nil {
			return nil, err
		}
		rows = append(rows, r...)
	}
	return rows, nil
}

// PrivateEndpointCollector collects private endpoint addresses.
type PrivateEndpointCollector struct {
	AZ *command.AzureCLI
}

// Collect implements Collector.
func (c *PrivateEndpointCollector) Collect(ctx context.Context) ([]Row, error) {
	slog.Debug("collecting private endpoint addresses")

	var endpoints []struct {
		resource
		IPConfigurations []ipConfiguration `json:"ipConfigurations"`
	}
	if err := c.AZ.JSON(ctx, &endpoints, "network", "private-endpoint", "list"); err != nil {
		return nil, fmt.Errorf("failed to list private endpoints: %w", err)
	}

	var rows []Row
	for _, pe := range endpoints {
		for _, cfg := range pe.IPConfigurations {
			if cfg.PrivateIPAddress != "" {
				rows = append(rows, pe.row(ResourcePrivateEndpoint, cfg.PrivateIPAddress, IPTypePrivate))
			}
		}
	}
	return rows, nil
}

// ServerCollector lists database servers and reports their FQDN as the
// address column.
type ServerCollector struct {
	AZ           *command.AzureCLI
	ResourceType string
	Args         []string
}

// Collect implements Collector.
func (c *ServerCollector) Collect(ctx context.Context) ([]Row, error) {
	slog.Debug("collecting database servers", "type", c.ResourceType)

	var servers []struct {
		resource
		FQDN string `json:"fullyQualifiedDomainName"`
	}
	if err := c.AZ.JSON(ctx, &servers, c.Args...); err != nil {
		return nil, fmt.Errorf("failed to list %s servers: %w", c.ResourceType, err)
	}

	var rows []Row
	for _, s := range servers {
		if s.FQDN != "" {
			rows = append(rows, s.row(c.ResourceType, s.FQDN, IPTypePublic))
		}
	}
	return rows, nil
}

// PrivateDNSCollector collects A records of private DNS zones. The zone name
// is reported in the Location column.
type PrivateDNSCollector struct {
	AZ *command.AzureCLI
}

// Collect implements Collector.
func (c *PrivateDNSCollector) Collect(ctx context.Context) ([]Row, error) {
	slog.Debug("collecting private dns records")

	var zones []resource
	if err := c.AZ.JSON(ctx, &zones, "network", "private-dns", "zone", "list"); err != nil {
		return nil, fmt.Errorf("failed to list private dns zones: %w", err)
	}

	var rows []Row
	for _, zone := range zones {
		var records []struct {
			Name     string `json:"name"`
			ARecords []struct {
				IPv4Address string `json:"ipv4Address"`
			} `json:"aRecords"`
		}
		if err := c.AZ.JSON(ctx, &records, "network", "private-dns", "record-set", "list",
			"--zone-name", zone.Name, "-g", zone.ResourceGroup); err != nil {
			return nil, fmt.Errorf("failed to list records of zone %s: %w", zone.Name, err)
		}
		for _, rec := range records {
			for _, a := range rec.ARecords {
				if a.IPv4Address == "" {
					continue
				}
				rows = append(rows, Row{
					ResourceType:  ResourcePrivateDNSZone,
					ResourceName:  rec.Name,
					ResourceGroup: zone.ResourceGroup,
					Location:      zone.Name,
					IPAddress:     a.IPv4Address,
					IPType:        IPTypePrivate,
				})
			}
		}
	}
	return rows, nil
}

// NICCollector collects the addresses of every network interface.
type NICCollector struct {
	AZ *command.AzureCLI
}

// Collect implements Collector.
func (c *NICCollector) Collect(ctx context.Context) ([]Row, error) {
	slog.Debug("collecting network interface addresses")

	var nics []struct {
		resource
		IPConfigurations []ipConfiguration `json:"ipConfigurations"`
	}
	if err := c.AZ.JSON(ctx, &nics, "network", "nic", "list"); err != nil {
		return nil, fmt.Errorf("failed to list network interfaces: %w", err)
	}

	var rows []Row
	for _, nic := range nics {
		r, err := ipConfigRows(ctx, c.AZ, nic.resource, ResourceNetworkInterface, nic.IPConfigurations)
		if err != nil {
			return nil, err
		}
		rows = append(rows, r...)
	}
	return rows, nil
}

// VNetCollector collects the address prefixes of virtual networks.
type VNetCollector struct {
	AZ *command.AzureCLI
}

// Collect implements Collector.
func (c *VNetCollector) Collect(ctx context.Context) ([]Row, error) {
	slog.Debug("collecting virtual networks", "subscription", c.AZ.Subscription())

	var vnets []struct {
		resource
		AddressSpace struct {
			AddressPrefixes []string `json:"addressPrefixes"`
		} `json:"addressSpace"`
	}
	if err := c.AZ.JSON(ctx, &vnets, "network", "vnet", "list"); err != nil {
		return nil, fmt.Errorf("failed to list virtual networks: %w", err)
	}

	var rows []Row
	for _, vnet := range vnets {
		for _, prefix := range vnet.AddressSpace.AddressPrefixes {
			rows = append(rows, vnet.row(ResourceVirtualNetwork, prefix, IPTypePrivate))
		}
	}
	return rows, nil
}
