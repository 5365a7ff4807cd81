package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
)

// purchaseAdapter posts purchase orders. Every posting of an order shares one transaction id
// so that cancelling reverses invoice, discount and payment together.
type purchaseAdapter struct {
	productRepo portsrepo.ProductRepository
}

// Invoice posts Dr Stock / Cr Accounts Payable and the vendor pair for the order total,
// then the discount if any, and receives the goods into stock.
func (a *purchaseAdapter) Invoice(ctx context.Context, u *UnitOfWork, order *domain.Order, vendor domain.Party) error {
	titles := []string{domain.TitleStock, domain.TitleAccountsPayable, vendor.SubAccountTitle(), vendor.ContraAccountTitle()}
	if order.Discount.IsPositive() {
		titles = append(titles, domain.TitlePurchaseDiscounts)
	}
	accounts, err := u.RequireAccounts(ctx, titles...)
	if err != nil {
		return err
	}

	id, err := u.NextTransactionID(ctx)
	if err != nil {
		return err
	}
	total := order.Total()

	lines := transferTitles(accounts, domain.TitleStock, domain.TitleAccountsPayable, total)
	lines = append(lines, transferTitles(accounts, vendor.ContraAccountTitle(), vendor.SubAccountTitle(), total)...)
	if _, err := u.Post(ctx, domain.PostingRequest{
		Lines:       lines,
		Date:        order.OrderDate,
		Description: fmt.Sprintf("Purchase invoice %s from %s", order.OrderID, vendor.Name),
		Meta:        domain.PostingMeta{MovementType: domain.MovementPurchase, TransactionID: id},
	}); err != nil {
		return err
	}

	if order.Discount.IsPositive() {
		lines := transferTitles(accounts, domain.TitleAccountsPayable, domain.TitlePurchaseDiscounts, order.Discount)
		lines = append(lines, transferTitles(accounts, vendor.SubAccountTitle(), vendor.ContraAccountTitle(), order.Discount)...)
		if _, err := u.Post(ctx, domain.PostingRequest{
			Lines:       lines,
			Date:        order.OrderDate,
			Description: fmt.Sprintf("Purchase discount on %s", order.OrderID),
			Meta:        domain.PostingMeta{MovementType: domain.MovementPurchaseDiscount, TransactionID: id},
		}); err != nil {
			return err
		}
	}

	if _, err := moveStock(ctx, a.productRepo, u, order.Items, 1); err != nil {
		return err
	}
	order.TransactionID = &id
	return nil
}

// Pay settles the net amount: Dr Accounts Payable / Cr Cash and the vendor pair.
func (a *purchaseAdapter) Pay(ctx context.Context, u *UnitOfWork, order *domain.Order, vendor domain.Party) error {
	if order.TransactionID == nil {
		return fmt.Errorf("%w: order %s has no invoice posting", apperrors.ErrInvalidTransition, order.OrderID)
	}
	accounts, err := u.RequireAccounts(ctx, domain.TitleAccountsPayable, domain.TitleCash, vendor.SubAccountTitle(), vendor.ContraAccountTitle())
	if err != nil {
		return err
	}

	net := order.NetTotal()
	lines := transferTitles(accounts, domain.TitleAccountsPayable, domain.TitleCash, net)
	lines = append(lines, transferTitles(accounts, vendor.SubAccountTitle(), vendor.ContraAccountTitle(), net)...)
	_, err = u.Post(ctx, domain.PostingRequest{
		Lines:       lines,
		Date:        u.Now,
		Description: fmt.Sprintf("Payment of purchase %s to %s", order.OrderID, vendor.Name),
		Meta:        domain.PostingMeta{MovementType: domain.MovementPurchasePayment, TransactionID: *order.TransactionID},
	})
	return err
}

// Cancel reverses the order transaction and returns the goods.
func (a *purchaseAdapter) Cancel(ctx context.Context, u *UnitOfWork, order *domain.Order) error {
	if order.TransactionID != nil {
		if _, err := u.Reverse(ctx, *order.TransactionID); err != nil {
			return err
		}
	}
	_, err := moveStock(ctx, a.productRepo, u, order.Items, -1)
	return err
}
