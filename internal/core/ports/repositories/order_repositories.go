package repositories

import (
	"context"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// OrderRepository persists purchase and sales orders with their items.
type OrderRepository interface {
	SaveOrder(ctx context.Context, tx pgx.Tx, order domain.Order) error

	// UpdateOrder writes status, transaction id and deletion flag. Items are immutable.
	UpdateOrder(ctx context.Context, tx pgx.Tx, order domain.Order) error

	// FindOrderForUpdate loads an order of the given kind with its items and locks it.
	// Soft-deleted orders are returned so that callers can reject transitions on them.
	FindOrderForUpdate(ctx context.Context, tx pgx.Tx, companyID string, kind domain.OrderKind, orderID string) (*domain.Order, error)
}
