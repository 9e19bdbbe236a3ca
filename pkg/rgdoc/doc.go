/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package rgdoc documents resource groups: it exports each group's ARM
// template, asks a chat completion endpoint for a markdown summary and writes
// the summary with Hugo style front matter next to the template.
//
// Runs are idempotent. A group whose summary.md already exists is skipped
// without any CLI or chat call, and an exported template is reused, unless
// Force is set.
package rgdoc
