package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
	"github.com/SscSPs/bizledger_app/internal/dto"
	"github.com/SscSPs/bizledger_app/internal/utils/accounting"
	"github.com/google/uuid"
)

// inventoryService manages products and capitalizes their stock on the Stock account.
type inventoryService struct {
	BaseService
	boundary    *postingBoundary
	productRepo portsrepo.ProductRepository
}

func newInventoryService(boundary *postingBoundary, productRepo portsrepo.ProductRepository) *inventoryService {
	return &inventoryService{boundary: boundary, productRepo: productRepo}
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

// CreateProduct saves a product. Opening stock with a cost is posted as
// Dr Stock / Cr Owner's Capital.
func (s *inventoryService) CreateProduct(ctx context.Context, actor domain.ActingUser, req dto.CreateProductRequest) (*domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("product name is required")
	}
	if req.CostPrice.IsNegative() || req.SalePrice.IsNegative() {
		return nil, apperrors.NewValidationError("prices must not be negative")
	}
	if err := accounting.ValidateScale("cost price", req.CostPrice); err != nil {
		return nil, err
	}
	if err := accounting.ValidateScale("sale price", req.SalePrice); err != nil {
		return nil, err
	}
	if req.StockQuantity < 0 {
		return nil, apperrors.NewValidationError("stock quantity must not be negative")
	}

	var product domain.Product
	err := s.boundary.Run(ctx, actor, domain.PermInventoryManage, "create_product", func(ctx context.Context, u *UnitOfWork) error {
		product = domain.Product{
			ProductID:     uuid.NewString(),
			CompanyID:     u.CompanyID(),
			Name:          name,
			SKU:           req.SKU,
			CostPrice:     req.CostPrice,
			SalePrice:     req.SalePrice,
			StockQuantity: req.StockQuantity,
			AuditFields:   newAudit(u.Actor.UserID, u.Now),
		}

		value := product.StockValue(product.StockQuantity)
		if value.IsPositive() {
			accounts, err := u.RequireAccounts(ctx, domain.TitleStock, domain.TitleOwnersCapital)
			if err != nil {
				return err
			}
			id, err := u.NextTransactionID(ctx)
			if err != nil {
				return err
			}
			_, err = u.Post(ctx, domain.PostingRequest{
				Lines:       accounting.Transfer(accounts[domain.TitleStock].AccountID, accounts[domain.TitleOwnersCapital].AccountID, value),
				Date:        u.Now,
				Description: fmt.Sprintf("Initial stock of %s", product.Name),
				Meta:        domain.PostingMeta{MovementType: domain.MovementInitialStock, TransactionID: id},
			})
			if err != nil {
				return err
			}
			product.TransactionID = &id
		}
		return s.productRepo.SaveProduct(ctx, u.Tx, product)
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Product created",
		slog.String("product_id", product.ProductID),
		slog.Int64("stock_quantity", product.StockQuantity))
	return &product, nil
}

// UpdateStock sets the stock quantity and posts the value of the change at cost.
func (s *inventoryService) UpdateStock(ctx context.Context, actor domain.ActingUser, productID string, req dto.UpdateStockRequest) (*domain.Product, error) {
	if req.StockQuantity == nil || *req.StockQuantity < 0 {
		return nil, apperrors.NewValidationError("stock quantity must be zero or more")
	}
	newQty := *req.StockQuantity

	var product *domain.Product
	err := s.boundary.Run(ctx, actor, domain.PermInventoryManage, "update_stock", func(ctx context.Context, u *UnitOfWork) error {
		var err error
		product, err = s.productRepo.FindProductForUpdate(ctx, u.Tx, u.CompanyID(), productID)
		if err != nil {
			return err
		}
		delta := newQty - product.StockQuantity
		if delta == 0 {
			return nil
		}

		value := product.StockValue(delta)
		if !value.IsZero() {
			accounts, err := u.RequireAccounts(ctx, domain.TitleStock, domain.TitleStockAdjustments)
			if err != nil {
				return err
			}
			id := product.TransactionID
			if id == nil {
				next, err := u.NextTransactionID(ctx)
				if err != nil {
					return err
				}
				id = &next
			}
			movement := domain.MovementStockAdjustmentIncrease
			if delta < 0 {
				movement = domain.MovementStockAdjustmentDecrease
			}
			_, err = u.Post(ctx, domain.PostingRequest{
				Lines:       accounting.SignedTransfer(accounts[domain.TitleStock].AccountID, accounts[domain.TitleStockAdjustments].AccountID, value),
				Date:        u.Now,
				Description: fmt.Sprintf("Stock adjustment of %s from %d to %d", product.Name, product.StockQuantity, newQty),
				Meta:        domain.PostingMeta{MovementType: movement, TransactionID: *id},
			})
			if err != nil {
				return err
			}
			product.TransactionID = id
		}

		product.StockQuantity = newQty
		product.LastUpdatedAt = u.Now
		product.LastUpdatedBy = u.Actor.UserID
		return s.productRepo.UpdateProduct(ctx, u.Tx, *product)
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Product stock updated",
		slog.String("product_id", productID),
		slog.Int64("stock_quantity", newQty))
	return product, nil
}

// DeleteProduct reverses the product's stock postings and soft-deletes it.
func (s *inventoryService) DeleteProduct(ctx context.Context, actor domain.ActingUser, productID string) error {
	err := s.boundary.Run(ctx, actor, domain.PermInventoryManage, "delete_product", func(ctx context.Context, u *UnitOfWork) error {
		product, err := s.productRepo.FindProductForUpdate(ctx, u.Tx, u.CompanyID(), productID)
		if err != nil {
			return err
		}
		if product.TransactionID != nil {
			if _, err := u.Reverse(ctx, *product.TransactionID); err != nil {
				return err
			}
		}
		product.IsDeleted = true
		product.LastUpdatedAt = u.Now
		product.LastUpdatedBy = u.Actor.UserID
		return s.productRepo.UpdateProduct(ctx, u.Tx, *product)
	})
	if err != nil {
		return err
	}

	s.LogInfo(ctx, "Product deleted", slog.String("product_id", productID))
	return nil
}

func (s *inventoryService) ListProducts(ctx context.Context, actor domain.ActingUser) ([]domain.Product, error) {
	if err := s.Authorize(ctx, actor, domain.PermLedgerRead); err != nil {
		return nil, err
	}
	products, err := s.productRepo.ListProducts(ctx, actor.CompanyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list products")
		return nil, err
	}
	if products == nil {
		return []domain.Product{}, nil
	}
	return products, nil
}
