package domain_test

import (
	"testing"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from domain.OrderStatus
		to   domain.OrderStatus
		want bool
	}{
		{domain.OrderDraft, domain.OrderOpen, true},
		{domain.OrderDraft, domain.OrderInvoiced, true},
		{domain.OrderOpen, domain.OrderInvoiced, true},
		{domain.OrderInvoiced, domain.OrderPaid, true},
		{domain.OrderDraft, domain.OrderCanceled, true},
		{domain.OrderOpen, domain.OrderCanceled, true},
		{domain.OrderInvoiced, domain.OrderCanceled, true},
		{domain.OrderPaid, domain.OrderCanceled, true},
		{domain.OrderPaid, domain.OrderDraft, false},
		{domain.OrderPaid, domain.OrderInvoiced, false},
		{domain.OrderInvoiced, domain.OrderOpen, false},
		{domain.OrderOpen, domain.OrderPaid, false},
		{domain.OrderDraft, domain.OrderPaid, false},
		{domain.OrderCanceled, domain.OrderOpen, false},
		{domain.OrderCanceled, domain.OrderCanceled, false},
		{domain.OrderOpen, domain.OrderOpen, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrder_Totals(t *testing.T) {
	order := domain.Order{
		Kind:     domain.PurchaseOrder,
		Discount: decimal.NewFromInt(5),
		Items: []domain.OrderItem{
			{ProductID: "p1", Quantity: 3, UnitPrice: decimal.NewFromInt(20)},
			{ProductID: "p2", Quantity: 2, UnitPrice: decimal.RequireFromString("2.50")},
		},
	}

	assert.True(t, order.Total().Equal(decimal.NewFromInt(65)))
	assert.True(t, order.NetTotal().Equal(decimal.NewFromInt(60)))
	assert.Equal(t, domain.PartyVendor, order.PartyKind())

	order.Kind = domain.SalesOrder
	assert.Equal(t, domain.PartyCustomer, order.PartyKind())
}

func TestOrderStatus_HasLedgerEffect(t *testing.T) {
	assert.False(t, domain.OrderDraft.HasLedgerEffect())
	assert.False(t, domain.OrderOpen.HasLedgerEffect())
	assert.True(t, domain.OrderInvoiced.HasLedgerEffect())
	assert.True(t, domain.OrderPaid.HasLedgerEffect())
	assert.False(t, domain.OrderCanceled.HasLedgerEffect())
}
