/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package dbref

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	azerrors "github.com/NVIDIA/azops/pkg/errors"
)

// Kind is a database server flavor.
type Kind string

const (
	KindSQL      Kind = "sql"
	KindPostgres Kind = "postgres"
	KindMySQL    Kind = "mysql"
)

// Kinds lists the supported kinds.
var Kinds = []Kind{KindSQL, KindPostgres, KindMySQL}

// ParseKind validates s and suggests the closest kind on a typo.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}

	msg := fmt.Sprintf("unsupported server type %q", s)
	best, bestDist := Kind(""), 3
	for _, known := range Kinds {
		if d := levenshtein.ComputeDistance(string(k), string(known)); d < bestDist {
			best, bestDist = known, d
		}
	}
	if best != "" {
		msg += fmt.Sprintf(", did you mean %q?", best)
	}
	return "", azerrors.New(azerrors.ErrCodeInvalidRequest, msg)
}

// commands holds the CLI arguments that differ between kinds.
type commands struct {
	show         []string
	databases    []string
	firewall     []string
	resourceType string
}

func commandsFor(k Kind, server, rg string) (commands, error) {
	switch k {
	case KindSQL:
		return commands{
			show:         []string{"sql", "server", "show", "-n", server, "-g", rg},
			databases:    []string{"sql", "db", "list", "-g", rg, "--server", server},
			firewall:     []string{"sql", "server", "firewall-rule", "list", "-g", rg, "--server", server},
			resourceType: "Microsoft.Sql/servers",
		}, nil
	case KindPostgres:
		return commands{
			show:         []string{"postgres", "flexible-server", "show", "-n", server, "-g", rg},
			databases:    []string{"postgres", "flexible-server", "db", "list", "-n", server, "-g", rg},
			firewall:     []string{"postgres", "flexible-server", "firewall-rule", "list", "-n", server, "-g", rg},
			resourceType: "Microsoft.DBforPostgreSQL/flexibleServers",
		}, nil
	case KindMySQL:
		return commands{
			show:         []string{"mysql", "flexible-server", "show", "-n", server, "-g", rg},
			databases:    []string{"mysql", "flexible-server", "db", "list", "-s", server, "-g", rg},
			firewall:     []string{"mysql", "flexible-server", "firewall-rule", "list", "-n", server, "-g", rg},
			resourceType: "Microsoft.DBforMySQL/flexibleServers",
		}, nil
	default:
		return commands{}, azerrors.New(azerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported server type %q", k))
	}
}
