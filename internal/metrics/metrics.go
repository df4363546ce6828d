// Package metrics holds the Prometheus collectors of the web service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransactionsApplied counts transactions committed to a ledger, by kind
	// (expense, transfer, undo).
	TransactionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "divider_transactions_applied_total",
		Help: "Transactions committed to a ledger",
	}, []string{"kind"})

	// LedgerErrors counts rejected ledger operations, by error kind.
	LedgerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "divider_ledger_errors_total",
		Help: "Rejected ledger operations",
	}, []string{"kind"})

	Reconciliations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "divider_reconciliations_total",
		Help: "Full recomputations of ledger balances",
	})

	RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "divider_rpc_requests_total",
		Help: "Total RPC requests",
	}, []string{"procedure", "code"})

	RPCLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "divider_rpc_request_duration_seconds",
		Help:    "RPC latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"procedure"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "divider_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "divider_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method", "endpoint"})
)
