/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package dbref builds a structured reference document for an Azure SQL,
// PostgreSQL flexible or MySQL flexible server from a series of CLI queries.
//
// Server properties are fetched first; failing to read them aborts the run.
// The remaining sections (databases, firewall rules, virtual network rules and
// private endpoints) are queried concurrently. A section that fails is left
// empty and its error is recorded in Reference.Errors, so an empty list in the
// output always means the server really has none.
package dbref
