// Package metrics holds the Prometheus instruments of the ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ledger groups the counters emitted by the posting path. A nil *Ledger is valid and records nothing.
type Ledger struct {
	postings        *prometheus.CounterVec
	postedLines     prometheus.Counter
	guardRejections *prometheus.CounterVec
	retries         prometheus.Counter
	failedUnits     *prometheus.CounterVec
	publishErrors   prometheus.Counter
}

// NewLedger registers the ledger instruments with reg.
func NewLedger(reg prometheus.Registerer) *Ledger {
	factory := promauto.With(reg)
	return &Ledger{
		postings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bizledger",
			Name:      "journal_postings_total",
			Help:      "Journal batches posted, by movement type.",
		}, []string{"movement_type"}),
		postedLines: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "bizledger",
			Name:      "journal_lines_total",
			Help:      "Journal lines written.",
		}),
		guardRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bizledger",
			Name:      "usage_guard_rejections_total",
			Help:      "Postings refused by the usage guard, by reason.",
		}, []string{"reason"}),
		retries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "bizledger",
			Name:      "unit_of_work_retries_total",
			Help:      "Units of work retried after a concurrency failure.",
		}),
		failedUnits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bizledger",
			Name:      "unit_of_work_failures_total",
			Help:      "Units of work rolled back, by operation.",
		}, []string{"operation"}),
		publishErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "bizledger",
			Name:      "ledger_event_publish_errors_total",
			Help:      "Ledger events that could not be published.",
		}),
	}
}

func (m *Ledger) Posted(movementType string, lines int) {
	if m == nil {
		return
	}
	m.postings.WithLabelValues(movementType).Inc()
	m.postedLines.Add(float64(lines))
}

func (m *Ledger) GuardRejected(reason string) {
	if m == nil {
		return
	}
	m.guardRejections.WithLabelValues(reason).Inc()
}

func (m *Ledger) Retried() {
	if m == nil {
		return
	}
	m.retries.Inc()
}

func (m *Ledger) UnitFailed(operation string) {
	if m == nil {
		return
	}
	m.failedUnits.WithLabelValues(operation).Inc()
}

func (m *Ledger) PublishFailed(count int) {
	if m == nil {
		return
	}
	m.publishErrors.Add(float64(count))
}
