// Package metrics provides Prometheus metrics for the print core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instalabel_connections_total",
			Help: "Total number of printer connection attempts",
		},
		[]string{"technology", "status"},
	)

	PrintsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instalabel_prints_total",
			Help: "Total number of print commands sent",
		},
		[]string{"technology", "status"},
	)

	BytesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instalabel_bytes_written_total",
			Help: "Total bytes written to printers",
		},
		[]string{"technology"},
	)

	DevicesDiscovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "instalabel_devices_discovered_total",
			Help: "Total devices pushed by BLE discovery",
		},
	)

	SpoolerJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instalabel_spooler_jobs_total",
			Help: "Total spooler jobs processed",
		},
		[]string{"status"},
	)
)
