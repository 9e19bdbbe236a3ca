/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package jobs relocates Azure Container Apps jobs to another resource group
// and managed environment.
//
// Every job in the source group is read with `containerapp job show`, passed
// through a Rewrite and recreated with `containerapp job create --yaml -`,
// the rewritten document piped on standard input. The source job is left in
// place.
//
// A Rewrite always retargets the resource id, resource group, environment id
// and event stream endpoint. Identity and image replacement and any further
// changes are opt-in: they come from flags or from a YAML overlay document
// merged over the job.
package jobs
