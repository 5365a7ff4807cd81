package pgsql

import (
	"testing"
	"time"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestDateBounds(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)

	cond, args := dateBounds(domain.AggregateFilter{}, 2)
	assert.Empty(t, cond)
	assert.Empty(t, args)

	cond, args = dateBounds(domain.AggregateFilter{From: &from, To: &to}, 2)
	assert.Equal(t, " AND entry_date >= $2 AND entry_date <= $3", cond)
	assert.Equal(t, []any{from, to}, args)

	cond, args = dateBounds(domain.AggregateFilter{To: &to}, 3)
	assert.Equal(t, " AND entry_date <= $3", cond)
	assert.Equal(t, []any{to}, args)
}
