package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxProductRepository struct {
	BaseRepository
}

func newPgxProductRepository(pool *pgxpool.Pool) *PgxProductRepository {
	return &PgxProductRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProductRepository = (*PgxProductRepository)(nil)

const productColumns = `product_id, company_id, name, sku, cost_price, sale_price, stock_quantity, transaction_id,
	is_deleted, created_at, created_by, last_updated_at, last_updated_by`

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ProductID,
		&p.CompanyID,
		&p.Name,
		&p.SKU,
		&p.CostPrice,
		&p.SalePrice,
		&p.StockQuantity,
		&p.TransactionID,
		&p.IsDeleted,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

func (r *PgxProductRepository) SaveProduct(ctx context.Context, tx pgx.Tx, product domain.Product) error {
	if err := requireTx(tx, "save product"); err != nil {
		return err
	}
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`

	_, err := tx.Exec(ctx, query,
		product.ProductID,
		product.CompanyID,
		product.Name,
		product.SKU,
		product.CostPrice,
		product.SalePrice,
		product.StockQuantity,
		product.TransactionID,
		product.IsDeleted,
		product.CreatedAt,
		product.CreatedBy,
		product.LastUpdatedAt,
		product.LastUpdatedBy,
	)
	return mapPgError(err, "save product")
}

func (r *PgxProductRepository) UpdateProduct(ctx context.Context, tx pgx.Tx, product domain.Product) error {
	if err := requireTx(tx, "update product"); err != nil {
		return err
	}
	query := `
		UPDATE products
		SET stock_quantity = $3, cost_price = $4, sale_price = $5, transaction_id = $6, is_deleted = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE company_id = $1 AND product_id = $2;`

	ct, err := tx.Exec(ctx, query,
		product.CompanyID,
		product.ProductID,
		product.StockQuantity,
		product.CostPrice,
		product.SalePrice,
		product.TransactionID,
		product.IsDeleted,
		product.LastUpdatedAt,
		product.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "update product")
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %s", apperrors.ErrNotFound, product.ProductID)
	}
	return nil
}

func (r *PgxProductRepository) FindProductForUpdate(ctx context.Context, tx pgx.Tx, companyID, productID string) (*domain.Product, error) {
	if err := requireTx(tx, "lock product"); err != nil {
		return nil, err
	}
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE company_id = $1 AND product_id = $2 AND NOT is_deleted
		FOR UPDATE;`

	p, err := scanProduct(tx.QueryRow(ctx, query, companyID, productID))
	if err != nil {
		return nil, mapPgError(err, "find product "+productID)
	}
	return &p, nil
}

func (r *PgxProductRepository) ListProducts(ctx context.Context, companyID string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE company_id = $1 AND NOT is_deleted
		ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, mapPgError(err, "list products")
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, mapPgError(err, "scan product")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "list products")
	}
	return products, nil
}
