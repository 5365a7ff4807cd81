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

// PgxOrderRepository persists orders and their items.
type PgxOrderRepository struct {
	BaseRepository
}

func newPgxOrderRepository(pool *pgxpool.Pool) *PgxOrderRepository {
	return &PgxOrderRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OrderRepository = (*PgxOrderRepository)(nil)

func (r *PgxOrderRepository) SaveOrder(ctx context.Context, tx pgx.Tx, order domain.Order) error {
	if err := requireTx(tx, "save order"); err != nil {
		return err
	}
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO orders (order_id, company_id, kind, party_id, status, order_date, discount, transaction_id, is_deleted,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`,
		order.OrderID,
		order.CompanyID,
		string(order.Kind),
		order.PartyID,
		string(order.Status),
		order.OrderDate,
		order.Discount,
		order.TransactionID,
		order.IsDeleted,
		order.CreatedAt,
		order.CreatedBy,
		order.LastUpdatedAt,
		order.LastUpdatedBy,
	)
	for i, item := range order.Items {
		batch.Queue(`
			INSERT INTO order_items (item_id, order_id, position, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6);`,
			item.ItemID, order.OrderID, i, item.ProductID, item.Quantity, item.UnitPrice)
	}
	return execBatch(ctx, tx, batch, "save order")
}

func (r *PgxOrderRepository) UpdateOrder(ctx context.Context, tx pgx.Tx, order domain.Order) error {
	if err := requireTx(tx, "update order"); err != nil {
		return err
	}
	query := `
		UPDATE orders
		SET status = $3, transaction_id = $4, is_deleted = $5, last_updated_at = $6, last_updated_by = $7
		WHERE company_id = $1 AND order_id = $2;`

	ct, err := tx.Exec(ctx, query,
		order.CompanyID,
		order.OrderID,
		string(order.Status),
		order.TransactionID,
		order.IsDeleted,
		order.LastUpdatedAt,
		order.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "update order")
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %s", apperrors.ErrNotFound, order.OrderID)
	}
	return nil
}

func (r *PgxOrderRepository) FindOrderForUpdate(ctx context.Context, tx pgx.Tx, companyID string, kind domain.OrderKind, orderID string) (*domain.Order, error) {
	if err := requireTx(tx, "lock order"); err != nil {
		return nil, err
	}
	query := `
		SELECT order_id, company_id, kind, party_id, status, order_date, discount, transaction_id, is_deleted,
			created_at, created_by, last_updated_at, last_updated_by
		FROM orders
		WHERE company_id = $1 AND kind = $2 AND order_id = $3
		FOR UPDATE;`

	var (
		o              domain.Order
		kindCol, state string
	)
	err := tx.QueryRow(ctx, query, companyID, string(kind), orderID).Scan(
		&o.OrderID,
		&o.CompanyID,
		&kindCol,
		&o.PartyID,
		&state,
		&o.OrderDate,
		&o.Discount,
		&o.TransactionID,
		&o.IsDeleted,
		&o.CreatedAt,
		&o.CreatedBy,
		&o.LastUpdatedAt,
		&o.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapPgError(err, "find order "+orderID)
	}
	o.Kind = domain.OrderKind(kindCol)
	o.Status = domain.OrderStatus(state)

	rows, err := tx.Query(ctx, `
		SELECT item_id, product_id, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY position;`, orderID)
	if err != nil {
		return nil, mapPgError(err, "load order items")
	}
	defer rows.Close()
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ItemID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, mapPgError(err, "scan order item")
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "load order items")
	}
	return &o, nil
}
