/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package dbref

import (
	"fmt"

	"github.com/NVIDIA/azops/pkg/header"
)

// ReferenceKind is the header kind of a server reference document.
const ReferenceKind = "ServerReference"

// Section names used as keys of Reference.Errors.
const (
	SectionDatabases        = "databases"
	SectionFirewallRules    = "firewallRules"
	SectionVNetRules        = "vnetRules"
	SectionPrivateEndpoints = "privateEndpoints"
)

// Reference documents one database server.
type Reference struct {
	header.Header `json:",inline" yaml:",inline"`

	GeneralInformation GeneralInformation `json:"generalInformation" yaml:"generalInformation"`
	Databases          []Database         `json:"databases" yaml:"databases"`
	Networking         Networking         `json:"networking" yaml:"networking"`
	Authentication     Authentication     `json:"authentication" yaml:"authentication"`

	// Sections filled in by hand after generation.
	KeyVault         *string        `json:"keyVault" yaml:"keyVault"`
	Security         map[string]any `json:"security" yaml:"security"`
	Performance      map[string]any `json:"performance" yaml:"performance"`
	BackupRestore    map[string]any `json:"backupRestore" yaml:"backupRestore"`
	Monitoring       map[string]any `json:"monitoring" yaml:"monitoring"`
	Maintenance      map[string]any `json:"maintenance" yaml:"maintenance"`
	DisasterRecovery map[string]any `json:"disasterRecovery" yaml:"disasterRecovery"`
	ChangeManagement map[string]any `json:"changeManagement" yaml:"changeManagement"`
	KnownIssues      []string       `json:"knownIssues" yaml:"knownIssues"`
	ContactSupport   map[string]any `json:"contactSupport" yaml:"contactSupport"`

	// Errors maps a section name to the reason it could not be collected.
	Errors map[string]string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func newReference() *Reference {
	return &Reference{
		Databases: []Database{},
		Networking: Networking{
			FirewallRules:    []FirewallRule{},
			VNetRules:        []VNetRule{},
			PrivateEndpoints: []PrivateEndpoint{},
		},
		Security:         map[string]any{},
		Performance:      map[string]any{},
		BackupRestore:    map[string]any{},
		Monitoring:       map[string]any{},
		Maintenance:      map[string]any{},
		DisasterRecovery: map[string]any{},
		ChangeManagement: map[string]any{},
		KnownIssues:      []string{},
		ContactSupport:   map[string]any{},
	}
}

// Partial reports whether any section failed.
func (r *Reference) Partial() bool {
	return len(r.Errors) > 0
}

// FileName returns the default output file name for a server reference.
func FileName(server string, kind Kind) string {
	return fmt.Sprintf("%s_%s_reference.json", server, kind)
}

// Subscription identifies the subscription the server lives in.
type Subscription struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// GeneralInformation holds server properties and ownership tags.
type GeneralInformation struct {
	ServerName         string       `json:"serverName" yaml:"serverName"`
	ResourceGroup      string       `json:"resourceGroup" yaml:"resourceGroup"`
	Subscription       Subscription `json:"subscription" yaml:"subscription"`
	Region             string       `json:"region" yaml:"region"`
	Environment        string       `json:"environment" yaml:"environment"`
	DeploymentDate     string       `json:"deploymentDate" yaml:"deploymentDate"`
	Owner              string       `json:"owner" yaml:"owner"`
	Purpose            string       `json:"purpose" yaml:"purpose"`
	Dependencies       []string     `json:"dependencies" yaml:"dependencies"`
	AdministratorLogin string       `json:"administratorLogin" yaml:"administratorLogin"`
}

// Database is one database on the server.
type Database struct {
	Name        string `json:"name" yaml:"name"`
	Purpose     string `json:"purpose" yaml:"purpose"`
	Impact      string `json:"impact" yaml:"impact"`
	Sensitivity string `json:"sensitivity" yaml:"sensitivity"`

	// SQL only.
	SKU    string `json:"sku,omitempty" yaml:"sku,omitempty"`
	SizeGB *int64 `json:"sizeGB,omitempty" yaml:"sizeGB,omitempty"`
}

// Networking groups the network access configuration.
type Networking struct {
	FirewallRules    []FirewallRule    `json:"firewallRules" yaml:"firewallRules"`
	VNetRules        []VNetRule        `json:"vnetRules" yaml:"vnetRules"`
	PrivateEndpoints []PrivateEndpoint `json:"privateEndpoints" yaml:"privateEndpoints"`
}

// FirewallRule is an allowed public address range.
type FirewallRule struct {
	Name    string `json:"name" yaml:"name"`
	StartIP string `json:"startIp" yaml:"startIp"`
	EndIP   string `json:"endIp" yaml:"endIp"`
}

// VNetRule is an allowed virtual network subnet.
type VNetRule struct {
	Name         string `json:"name" yaml:"name"`
	VNetSubnetID string `json:"vnetSubnetId" yaml:"vnetSubnetId"`
}

// PrivateEndpoint is an approved or pending private endpoint connection.
type PrivateEndpoint struct {
	Name                string `json:"name" yaml:"name"`
	Status              string `json:"status" yaml:"status"`
	PrivateLinkResource string `json:"privateLinkResource" yaml:"privateLinkResource"`
	VNetSubnet          string `json:"vnetSubnet" yaml:"vnetSubnet"`
	PrivateIP           string `json:"privateIP" yaml:"privateIP"`
}

// Authentication describes how clients authenticate.
type Authentication struct {
	AdministratorLogin string `json:"administratorLogin" yaml:"administratorLogin"`
}
