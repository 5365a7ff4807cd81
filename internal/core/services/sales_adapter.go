package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// salesAdapter posts sales orders under one transaction id per order.
type salesAdapter struct {
	productRepo portsrepo.ProductRepository
}

// Invoice ships the goods and posts revenue, the customer pair, cost of goods sold and
// the discount if any.
func (a *salesAdapter) Invoice(ctx context.Context, u *UnitOfWork, order *domain.Order, customer domain.Party) error {
	titles := []string{
		domain.TitleAccountsReceivable, domain.TitleSalesRevenue,
		domain.TitleCostOfGoodsSold, domain.TitleStock,
		customer.SubAccountTitle(), customer.ContraAccountTitle(),
	}
	if order.Discount.IsPositive() {
		titles = append(titles, domain.TitleSalesDiscounts)
	}
	accounts, err := u.RequireAccounts(ctx, titles...)
	if err != nil {
		return err
	}

	shipped, err := moveStock(ctx, a.productRepo, u, order.Items, -1)
	if err != nil {
		return err
	}
	_, qty := quantitiesByProduct(order.Items)
	cogs := decimal.Zero
	for _, p := range shipped {
		cogs = cogs.Add(p.StockValue(qty[p.ProductID]))
	}

	id, err := u.NextTransactionID(ctx)
	if err != nil {
		return err
	}
	total := order.Total()

	lines := transferTitles(accounts, domain.TitleAccountsReceivable, domain.TitleSalesRevenue, total)
	lines = append(lines, transferTitles(accounts, customer.SubAccountTitle(), customer.ContraAccountTitle(), total)...)
	if _, err := u.Post(ctx, domain.PostingRequest{
		Lines:       lines,
		Date:        order.OrderDate,
		Description: fmt.Sprintf("Sales invoice %s to %s", order.OrderID, customer.Name),
		Meta:        domain.PostingMeta{MovementType: domain.MovementSale, TransactionID: id},
	}); err != nil {
		return err
	}

	if cogs.IsPositive() {
		if _, err := u.Post(ctx, domain.PostingRequest{
			Lines:       transferTitles(accounts, domain.TitleCostOfGoodsSold, domain.TitleStock, cogs),
			Date:        order.OrderDate,
			Description: fmt.Sprintf("Cost of goods sold for %s", order.OrderID),
			Meta:        domain.PostingMeta{MovementType: domain.MovementCostOfGoodsSold, TransactionID: id},
		}); err != nil {
			return err
		}
	}

	if order.Discount.IsPositive() {
		lines := transferTitles(accounts, domain.TitleSalesDiscounts, domain.TitleAccountsReceivable, order.Discount)
		lines = append(lines, transferTitles(accounts, customer.ContraAccountTitle(), customer.SubAccountTitle(), order.Discount)...)
		if _, err := u.Post(ctx, domain.PostingRequest{
			Lines:       lines,
			Date:        order.OrderDate,
			Description: fmt.Sprintf("Sales discount on %s", order.OrderID),
			Meta:        domain.PostingMeta{MovementType: domain.MovementSalesDiscount, TransactionID: id},
		}); err != nil {
			return err
		}
	}

	order.TransactionID = &id
	return nil
}

// Pay collects the net amount: Dr Cash / Cr Accounts Receivable and the customer pair.
func (a *salesAdapter) Pay(ctx context.Context, u *UnitOfWork, order *domain.Order, customer domain.Party) error {
	if order.TransactionID == nil {
		return fmt.Errorf("%w: order %s has no invoice posting", apperrors.ErrInvalidTransition, order.OrderID)
	}
	accounts, err := u.RequireAccounts(ctx, domain.TitleCash, domain.TitleAccountsReceivable, customer.SubAccountTitle(), customer.ContraAccountTitle())
	if err != nil {
		return err
	}

	net := order.NetTotal()
	lines := transferTitles(accounts, domain.TitleCash, domain.TitleAccountsReceivable, net)
	lines = append(lines, transferTitles(accounts, customer.ContraAccountTitle(), customer.SubAccountTitle(), net)...)
	_, err = u.Post(ctx, domain.PostingRequest{
		Lines:       lines,
		Date:        u.Now,
		Description: fmt.Sprintf("Payment of sale %s from %s", order.OrderID, customer.Name),
		Meta:        domain.PostingMeta{MovementType: domain.MovementSalesPayment, TransactionID: *order.TransactionID},
	})
	return err
}

// Cancel reverses the order transaction and puts the goods back into stock.
func (a *salesAdapter) Cancel(ctx context.Context, u *UnitOfWork, order *domain.Order) error {
	if order.TransactionID != nil {
		if _, err := u.Reverse(ctx, *order.TransactionID); err != nil {
			return err
		}
	}
	_, err := moveStock(ctx, a.productRepo, u, order.Items, 1)
	return err
}
