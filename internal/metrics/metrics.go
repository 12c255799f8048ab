// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RefreshTotal counts full reloads from the backing spreadsheet.
	RefreshTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stockdesk_refresh_total",
		Help: "Number of full dataset reloads attempted.",
	})

	// RefreshFailures counts reloads that failed at the gateway.
	RefreshFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stockdesk_refresh_failures_total",
		Help: "Number of full dataset reloads that failed.",
	})

	// WriteTotal counts write batches by kind (movements, items, damaged).
	WriteTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stockdesk_writes_total",
		Help: "Number of write batches sent to the backing store.",
	}, []string{"kind"})

	// WriteFailures counts rejected write batches by kind.
	WriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stockdesk_write_failures_total",
		Help: "Number of write batches rejected by the backing store.",
	}, []string{"kind"})

	// LedgerSize tracks the confirmed movement ledger length after the most
	// recent reload.
	LedgerSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stockdesk_ledger_rows",
		Help: "Movement rows in the confirmed tier.",
	})
)
