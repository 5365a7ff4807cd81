package dto

import (
	"time"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one product line of an order.
type OrderItemRequest struct {
	ProductID string          `json:"productID" binding:"required"`
	Quantity  int64           `json:"quantity" binding:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"gt=0"`
}

// CreateOrderRequest creates a purchase or sales order in DRAFT.
type CreateOrderRequest struct {
	PartyID   string             `json:"partyID" binding:"required"`
	OrderDate time.Time          `json:"orderDate" binding:"required"`
	Discount  decimal.Decimal    `json:"discount" binding:"gte=0"`
	Items     []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderStatusRequest moves an order through its lifecycle.
type UpdateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required,oneof=OPEN INVOICED PAID CANCELED DRAFT"`
}
