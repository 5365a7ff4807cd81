package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestLedgerCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedger(reg)

	m.Posted("purchase", 4)
	m.Posted("purchase", 4)
	m.Posted("sale", 2)
	m.GuardRejected("expired")
	m.Retried()
	m.UnitFailed("order.update_status")
	m.PublishFailed(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.postings.WithLabelValues("purchase")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.postedLines))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.guardRejections.WithLabelValues("expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.retries))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.publishErrors))
}

func TestNilLedgerIsNoop(t *testing.T) {
	var m *Ledger
	assert.NotPanics(t, func() {
		m.Posted("manual", 2)
		m.GuardRejected("limit_reached")
		m.Retried()
		m.UnitFailed("x")
		m.PublishFailed(1)
	})
}
