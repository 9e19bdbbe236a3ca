/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package command

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess         = "success"
	outcomeNonZeroExit     = "non_zero_exit"
	outcomeSpawnFailed     = "spawn_failed"
	outcomeMalformedOutput = "malformed_output"
	outcomeTimeout         = "timeout"
	outcomeCanceled        = "canceled"
)

var (
	commandDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "azops_command_duration_seconds",
			Help:    "Duration of external command invocations",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)

	commandTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "azops_command_total",
			Help: "Total number of external command invocations",
		},
		[]string{"outcome"}, // success, non_zero_exit, spawn_failed, malformed_output, timeout, canceled
	)
)
