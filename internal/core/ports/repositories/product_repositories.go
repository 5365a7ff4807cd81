package repositories

import (
	"context"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ProductRepository persists products.
type ProductRepository interface {
	SaveProduct(ctx context.Context, tx pgx.Tx, product domain.Product) error

	// UpdateProduct writes stock quantity, prices, transaction id and deletion flag.
	UpdateProduct(ctx context.Context, tx pgx.Tx, product domain.Product) error

	// FindProductForUpdate loads a non-deleted product and locks it.
	FindProductForUpdate(ctx context.Context, tx pgx.Tx, companyID, productID string) (*domain.Product, error)

	ListProducts(ctx context.Context, companyID string) ([]domain.Product, error)
}
