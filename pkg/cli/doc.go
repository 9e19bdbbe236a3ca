/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the command-line interface of azops.
//
// # Commands
//
// inventory ips - Collect IP addresses of the current subscription:
//
//	azops inventory ips [--types vm,public-ip] [--exclude 'test-*'] [--output FILE] [--format csv|json|yaml|table]
//
// inventory networks - Collect public IPs and virtual networks of every subscription:
//
//	azops inventory networks [--subscription ID ...] [--output FILE]
//
// dbref - Generate a reference document for a database server:
//
//	azops dbref --type sql|postgres|mysql --server NAME --resource-group RG [--output FILE]
//
// rgdoc - Export ARM templates and write LLM generated summaries:
//
//	azops rgdoc [--resource-group RG ...] [--output-dir DIR] [--force]
//
// jobs move - Recreate container apps jobs in another resource group:
//
//	azops jobs move --source-resource-group SRC --new-resource-group DST --new-environment ENV [--dry-run]
//
// # Global Flags
//
//	--debug            Enable debug logging
//	--log-json         Emit logs as JSON
//	--env-file FILE    Load KEY=VALUE settings before reading the environment
//	--metrics-file F   Write prometheus metrics in text format on exit
//	--concurrency N    Work items processed at once
//	--fail-on-partial  Exit with code 3 when some work items failed
//
// # Exit Codes
//
//	0  success, including partial success without --fail-on-partial
//	1  error
//	2  cancelled by signal
//	3  partial success with --fail-on-partial
//
// # Environment
//
// Settings such as the chat endpoint, the az executable and retry tuning are
// read from the environment by package config. See config.Config.
package cli
