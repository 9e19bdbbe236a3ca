/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package inventory collects IP addresses and address ranges of network
// facing resources through the Azure CLI.
//
// Each resource type has a Collector that turns CLI listings into rows with a
// fixed column schema. Collectors are created through a Factory so tests can
// substitute them, and are run concurrently with fanout.Map: a collector that
// fails contributes no rows and is reported as a failure while the others
// still produce output.
//
// Two inventories are provided:
//
//   - IPInventory runs the selected collectors in the current subscription.
//   - NetworkInventory lists every subscription the account can see and
//     collects public IPs and virtual network address spaces from each.
package inventory
