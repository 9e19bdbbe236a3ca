/*
Copyright © 2026 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package fanout

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Batch metrics
	fanoutBatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "azops_fanout_batch_duration_seconds",
			Help:    "Time taken to process a complete batch of work items",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 900},
		},
		[]string{"batch"},
	)

	fanoutItemDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "azops_fanout_item_duration_seconds",
			Help:    "Time taken by individual work items",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"batch"},
	)

	fanoutItemTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "azops_fanout_items_total",
			Help: "Total number of processed work items",
		},
		[]string{"batch", "status"}, // success or error
	)

	fanoutRowCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "azops_fanout_rows",
			Help: "Number of rows in the last aggregated report",
		},
		[]string{"batch"},
	)
)
