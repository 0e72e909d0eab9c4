package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline counters. A single instance is created in main
// and handed to the use cases that record business events.
type Metrics struct {
	PaymentsProcessed   *prometheus.CounterVec
	StockMovements      *prometheus.CounterVec
	DecrementSkipped    prometheus.Counter
	DeliveryTransitions *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PaymentsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ceylonmart_payments_processed_total",
			Help: "Payments that reached a terminal or settled status, by method and status.",
		}, []string{"method", "status"}),
		StockMovements: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ceylonmart_stock_movements_total",
			Help: "Stock ledger movements applied, by movement type.",
		}, []string{"type"}),
		DecrementSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "ceylonmart_decrement_skipped_total",
			Help: "Sale decrements skipped because the payment was already applied.",
		}),
		DeliveryTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ceylonmart_delivery_transitions_total",
			Help: "Delivery status transitions, by target status.",
		}, []string{"status"}),
	}
}
