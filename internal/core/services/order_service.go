package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
	"github.com/SscSPs/bizledger_app/internal/dto"
	"github.com/SscSPs/bizledger_app/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// orderPostingAdapter turns order lifecycle events into journal postings and stock moves.
type orderPostingAdapter interface {
	Invoice(ctx context.Context, u *UnitOfWork, order *domain.Order, party domain.Party) error
	Pay(ctx context.Context, u *UnitOfWork, order *domain.Order, party domain.Party) error
	Cancel(ctx context.Context, u *UnitOfWork, order *domain.Order) error
}

// orderService drives purchase and sales orders through their state machine.
type orderService struct {
	BaseService
	boundary    *postingBoundary
	orderRepo   portsrepo.OrderRepository
	companyRepo portsrepo.CompanyRepository
	productRepo portsrepo.ProductRepository
	adapters    map[domain.OrderKind]orderPostingAdapter
}

func newOrderService(boundary *postingBoundary, orderRepo portsrepo.OrderRepository, companyRepo portsrepo.CompanyRepository, productRepo portsrepo.ProductRepository) *orderService {
	return &orderService{
		boundary:    boundary,
		orderRepo:   orderRepo,
		companyRepo: companyRepo,
		productRepo: productRepo,
		adapters: map[domain.OrderKind]orderPostingAdapter{
			domain.PurchaseOrder: &purchaseAdapter{productRepo: productRepo},
			domain.SalesOrder:    &salesAdapter{productRepo: productRepo},
		},
	}
}

var _ portssvc.OrderSvcFacade = (*orderService)(nil)

func orderPermission(kind domain.OrderKind) domain.Permission {
	if kind == domain.SalesOrder {
		return domain.PermSalesManage
	}
	return domain.PermPurchasesManage
}

// CreateOrder saves a DRAFT order. Drafts have no ledger effect.
func (s *orderService) CreateOrder(ctx context.Context, actor domain.ActingUser, kind domain.OrderKind, req dto.CreateOrderRequest) (*domain.Order, error) {
	if _, ok := s.adapters[kind]; !ok {
		return nil, apperrors.NewValidationError("unknown order kind %q", kind)
	}
	if len(req.Items) == 0 {
		return nil, apperrors.NewValidationError("order needs at least one item")
	}

	var order domain.Order
	err := s.boundary.Run(ctx, actor, orderPermission(kind), "create_order", func(ctx context.Context, u *UnitOfWork) error {
		order = domain.Order{
			OrderID:     uuid.NewString(),
			CompanyID:   u.CompanyID(),
			Kind:        kind,
			PartyID:     req.PartyID,
			Status:      domain.OrderDraft,
			OrderDate:   req.OrderDate,
			Discount:    req.Discount,
			Items:       make([]domain.OrderItem, len(req.Items)),
			AuditFields: newAudit(u.Actor.UserID, u.Now),
		}
		if _, err := loadParty(ctx, s.companyRepo, u, req.PartyID, order.PartyKind()); err != nil {
			return err
		}
		for i, item := range req.Items {
			if item.Quantity <= 0 {
				return apperrors.NewValidationError("item %d quantity must be positive", i)
			}
			if !item.UnitPrice.IsPositive() {
				return apperrors.NewValidationError("item %d unit price must be positive", i)
			}
			if err := accounting.ValidateScale(fmt.Sprintf("item %d unit price", i), item.UnitPrice); err != nil {
				return err
			}
			if _, err := s.productRepo.FindProductForUpdate(ctx, u.Tx, u.CompanyID(), item.ProductID); err != nil {
				return err
			}
			order.Items[i] = domain.OrderItem{
				ItemID:    uuid.NewString(),
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			}
		}
		if order.Discount.IsNegative() || order.Discount.GreaterThanOrEqual(order.Total()) {
			return apperrors.NewValidationError("discount must be at least zero and below the order total %s", order.Total())
		}
		if err := accounting.ValidateScale("discount", order.Discount); err != nil {
			return err
		}
		return s.orderRepo.SaveOrder(ctx, u.Tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Order created",
		slog.String("order_id", order.OrderID),
		slog.String("kind", string(kind)),
		slog.String("total", order.Total().String()))
	return &order, nil
}

// UpdateOrderStatus applies one transition and its ledger effect atomically.
func (s *orderService) UpdateOrderStatus(ctx context.Context, actor domain.ActingUser, kind domain.OrderKind, orderID string, next domain.OrderStatus) (*domain.Order, error) {
	adapter, ok := s.adapters[kind]
	if !ok {
		return nil, apperrors.NewValidationError("unknown order kind %q", kind)
	}

	var order *domain.Order
	var from domain.OrderStatus
	err := s.boundary.Run(ctx, actor, orderPermission(kind), "update_order_status", func(ctx context.Context, u *UnitOfWork) error {
		var err error
		order, err = s.orderRepo.FindOrderForUpdate(ctx, u.Tx, u.CompanyID(), kind, orderID)
		if err != nil {
			return err
		}
		from = order.Status
		if order.IsDeleted || !order.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s to %s", apperrors.ErrInvalidTransition, order.Status, next)
		}

		switch next {
		case domain.OrderInvoiced:
			party, err := loadParty(ctx, s.companyRepo, u, order.PartyID, order.PartyKind())
			if err != nil {
				return err
			}
			if err := adapter.Invoice(ctx, u, order, *party); err != nil {
				return err
			}
		case domain.OrderPaid:
			party, err := loadParty(ctx, s.companyRepo, u, order.PartyID, order.PartyKind())
			if err != nil {
				return err
			}
			if err := adapter.Pay(ctx, u, order, *party); err != nil {
				return err
			}
		case domain.OrderCanceled:
			if order.Status.HasLedgerEffect() {
				if err := adapter.Cancel(ctx, u, order); err != nil {
					return err
				}
			}
			order.IsDeleted = true
		}

		order.Status = next
		order.LastUpdatedAt = u.Now
		order.LastUpdatedBy = u.Actor.UserID
		return s.orderRepo.UpdateOrder(ctx, u.Tx, *order)
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Order status updated",
		slog.String("order_id", orderID),
		slog.String("from", string(from)),
		slog.String("to", string(next)))
	return order, nil
}

// quantitiesByProduct sums item quantities per product, in lock order.
func quantitiesByProduct(items []domain.OrderItem) ([]string, map[string]int64) {
	qty := make(map[string]int64, len(items))
	for _, item := range items {
		qty[item.ProductID] += item.Quantity
	}
	ids := make([]string, 0, len(qty))
	for id := range qty {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, qty
}

// moveStock adds sign*quantity to every product of the order. Stock never goes below zero.
func moveStock(ctx context.Context, repo portsrepo.ProductRepository, u *UnitOfWork, items []domain.OrderItem, sign int64) ([]domain.Product, error) {
	ids, qty := quantitiesByProduct(items)
	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		product, err := repo.FindProductForUpdate(ctx, u.Tx, u.CompanyID(), id)
		if err != nil {
			return nil, err
		}
		newQty := product.StockQuantity + sign*qty[id]
		if newQty < 0 {
			return nil, fmt.Errorf("%w: product %s has %d, needs %d", apperrors.ErrInsufficientStock, product.Name, product.StockQuantity, qty[id])
		}
		product.StockQuantity = newQty
		product.LastUpdatedAt = u.Now
		product.LastUpdatedBy = u.Actor.UserID
		if err := repo.UpdateProduct(ctx, u.Tx, *product); err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, nil
}

// transferTitles moves amount between two resolved accounts identified by title.
func transferTitles(accounts map[string]domain.Account, debitTitle, creditTitle string, amount decimal.Decimal) []domain.PostingLine {
	return accounting.Transfer(accounts[debitTitle].AccountID, accounts[creditTitle].AccountID, amount)
}
