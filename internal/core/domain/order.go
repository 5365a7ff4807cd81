package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderKind distinguishes purchase orders from sales orders.
type OrderKind string

const (
	PurchaseOrder OrderKind = "PURCHASE"
	SalesOrder    OrderKind = "SALES"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderDraft    OrderStatus = "DRAFT"
	OrderOpen     OrderStatus = "OPEN"
	OrderInvoiced OrderStatus = "INVOICED"
	OrderPaid     OrderStatus = "PAID"
	OrderCanceled OrderStatus = "CANCELED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderDraft:    {OrderOpen, OrderInvoiced, OrderCanceled},
	OrderOpen:     {OrderInvoiced, OrderCanceled},
	OrderInvoiced: {OrderPaid, OrderCanceled},
	OrderPaid:     {OrderCanceled},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// HasLedgerEffect reports whether an order in this status has posted journal lines.
func (s OrderStatus) HasLedgerEffect() bool {
	return s == OrderInvoiced || s == OrderPaid
}

// OrderItem is one product line of an order.
type OrderItem struct {
	ItemID    string          `json:"itemID"`
	ProductID string          `json:"productID"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Amount is quantity times unit price.
func (i OrderItem) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// Order is a purchase or sales document.
type Order struct {
	OrderID       string          `json:"orderID"`
	CompanyID     string          `json:"companyID"`
	Kind          OrderKind       `json:"kind"`
	PartyID       string          `json:"partyID"` // vendor or customer
	Status        OrderStatus     `json:"status"`
	OrderDate     time.Time       `json:"orderDate"`
	Discount      decimal.Decimal `json:"discount"`
	Items         []OrderItem     `json:"items"`
	TransactionID *int64          `json:"transactionID,omitempty"`
	IsDeleted     bool            `json:"isDeleted"`
	AuditFields
}

// Total is the gross amount of all items.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount())
	}
	return total
}

// NetTotal is the total less the discount.
func (o Order) NetTotal() decimal.Decimal {
	return o.Total().Sub(o.Discount)
}

// PartyKind returns the kind of party the order is placed with.
func (o Order) PartyKind() PartyKind {
	if o.Kind == SalesOrder {
		return PartyCustomer
	}
	return PartyVendor
}
