package services

import (
	"context"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/SscSPs/bizledger_app/internal/dto"
)

// InventorySvcFacade manages products and posts their stock movements.
type InventorySvcFacade interface {
	CreateProduct(ctx context.Context, actor domain.ActingUser, req dto.CreateProductRequest) (*domain.Product, error)
	UpdateStock(ctx context.Context, actor domain.ActingUser, productID string, req dto.UpdateStockRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, actor domain.ActingUser, productID string) error
	ListProducts(ctx context.Context, actor domain.ActingUser) ([]domain.Product, error)
}

// OrderSvcFacade manages purchase and sales orders and their lifecycle postings.
type OrderSvcFacade interface {
	CreateOrder(ctx context.Context, actor domain.ActingUser, kind domain.OrderKind, req dto.CreateOrderRequest) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, actor domain.ActingUser, kind domain.OrderKind, orderID string, next domain.OrderStatus) (*domain.Order, error)
}

// PayrollSvcFacade manages pay runs and their salary postings.
type PayrollSvcFacade interface {
	CreatePayRun(ctx context.Context, actor domain.ActingUser, req dto.CreatePayRunRequest) (*domain.PayRun, error)
	ApprovePayRun(ctx context.Context, actor domain.ActingUser, payRunID string) (*domain.PayRun, error)
	CashOutPayRun(ctx context.Context, actor domain.ActingUser, payRunID string) (*domain.PayRun, error)
	DeletePayRun(ctx context.Context, actor domain.ActingUser, payRunID string) error
}
