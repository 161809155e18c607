package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/usecase"
)

// Metrics holds all Prometheus metrics and implements usecase.MetricsRecorder.
type Metrics struct {
	// Reconciliation metrics
	ReconcilePasses   *prometheus.CounterVec
	BalanceUpdates    *prometheus.CounterVec
	ReconcileDuration prometheus.Histogram
	ClosingBalance    prometheus.Gauge

	// Entry metrics
	EntryMutations *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ReconcilePasses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbook_reconcile_passes_total",
				Help: "Total number of reconciliation passes",
			},
			[]string{"outcome"},
		),
		BalanceUpdates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbook_balance_updates_total",
				Help: "Total number of balance writes issued by reconciliation",
			},
			[]string{"result"},
		),
		ReconcileDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cashbook_reconcile_duration_seconds",
			Help:    "Duration of reconciliation passes",
			Buckets: prometheus.DefBuckets,
		}),
		ClosingBalance: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cashbook_closing_balance",
			Help: "Closing balance of the last reconciliation pass",
		}),
		EntryMutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbook_entry_mutations_total",
				Help: "Total number of entry mutations",
			},
			[]string{"operation", "outcome"},
		),
	}
}

// ObserveReconcile records one reconciliation pass. The closing balance gauge
// only moves on passes that computed one.
func (m *Metrics) ObserveReconcile(outcome string, updated, failed int, duration time.Duration, closing decimal.Decimal) {
	m.ReconcilePasses.WithLabelValues(outcome).Inc()
	m.BalanceUpdates.WithLabelValues("written").Add(float64(updated))
	m.BalanceUpdates.WithLabelValues("failed").Add(float64(failed))
	m.ReconcileDuration.Observe(duration.Seconds())
	if outcome != usecase.OutcomeError {
		m.ClosingBalance.Set(closing.InexactFloat64())
	}
}

// ObserveMutation records one entry mutation.
func (m *Metrics) ObserveMutation(operation, outcome string) {
	m.EntryMutations.WithLabelValues(operation, outcome).Inc()
}
