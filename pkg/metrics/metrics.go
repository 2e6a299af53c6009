package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// HandlesLive tracks order list identifiers currently owned by a foreign caller
var HandlesLive = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "finalex_order_list_handles_live",
		Help: "Number of order list id handles exported and not yet released",
	},
)

// HandlesExported counts handles handed across the foreign boundary
var HandlesExported = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "finalex_order_list_handles_exported_total",
		Help: "Total number of order list id handles exported to foreign callers",
	},
)

// HandlesReleased counts handles released by foreign callers or on drain
var HandlesReleased = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "finalex_order_list_handles_released_total",
		Help: "Total number of order list id handles released",
	},
)

// HandleErrors counts rejected boundary calls by reason
var HandleErrors = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "finalex_order_list_handle_errors_total",
		Help: "Total number of rejected order list id boundary calls",
	},
	[]string{"reason"},
)

// IDsIssued counts identifiers reserved in the issued-id ledger
var IDsIssued = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "finalex_order_list_ids_issued_total",
		Help: "Total number of order list ids issued and recorded in the ledger",
	},
)

func init() {
	prometheus.MustRegister(HandlesLive, HandlesExported, HandlesReleased, HandleErrors)
	prometheus.MustRegister(IDsIssued)
}
