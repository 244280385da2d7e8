package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// ScansTotal counts station scans by station (packer, tech) and result
	// (matched, exception, duplicate, sku_stock, fba).
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warehouse_scans_total",
			Help: "Station scans by station and outcome",
		},
		[]string{"station", "result"},
	)

	OpenExceptions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "warehouse_open_exceptions",
			Help: "Open rows in orders_exceptions",
		},
	)

	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warehouse_sync_runs_total",
			Help: "Marketplace sync runs by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "warehouse_websocket_clients",
			Help: "Connected dashboard websocket clients",
		},
	)
)
