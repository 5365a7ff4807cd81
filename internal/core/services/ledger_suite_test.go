package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
	"github.com/SscSPs/bizledger_app/internal/core/services"
	"github.com/SscSPs/bizledger_app/internal/dto"
	"github.com/SscSPs/bizledger_app/internal/platform/config"
	"github.com/SscSPs/bizledger_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2026, 5, 14, 10, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	events []domain.LedgerEvent
}

func (p *recordingPublisher) PublishTransactions(_ context.Context, events []domain.LedgerEvent) error {
	p.events = append(p.events, events...)
	return nil
}

// LedgerSuite drives the services end to end against the in-memory store.
type LedgerSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memory.Store
	svc       *portssvc.ServiceContainer
	publisher *recordingPublisher
	admin     domain.ActingUser
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()
	s.publisher = &recordingPublisher{}
	cfg := &config.Config{SubscriptionGracePeriod: 7 * 24 * time.Hour, FreePlanDailyLimit: -1}
	s.svc = services.NewServiceContainer(cfg, s.store.Provider(),
		services.WithClock(func() time.Time { return fixedNow }),
		services.WithEventPublisher(s.publisher))
	s.admin = domain.ActingUser{UserID: "owner", CompanyID: "acme", Permissions: []domain.Permission{domain.PermCompanyAdmin}}

	_, err := s.svc.Company.OnboardCompany(s.ctx, s.admin, dto.CreateCompanyRequest{Name: "Acme Trading"})
	s.Require().NoError(err)
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func (s *LedgerSuite) accounts() map[string]domain.Account {
	list, err := s.svc.Account.GetAccounts(s.ctx, s.admin)
	s.Require().NoError(err)
	byTitle := make(map[string]domain.Account, len(list))
	for _, acc := range list {
		byTitle[acc.Title] = acc
	}
	return byTitle
}

func (s *LedgerSuite) assertBalances(want map[string]string) {
	s.T().Helper()
	accounts := s.accounts()
	for title, amount := range want {
		acc, ok := accounts[title]
		if s.Truef(ok, "account %q missing", title) {
			s.Truef(dec(amount).Equal(acc.Balance), "%s: want %s, got %s", title, amount, acc.Balance)
		}
	}
}

func (s *LedgerSuite) assertLedgerConsistent() {
	s.T().Helper()
	v, err := s.svc.Journal.VerifyLedger(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Empty(v.UnbalancedTxns)
	s.Empty(v.StaleBalances)
}

func (s *LedgerSuite) party(kind domain.PartyKind, name string) *domain.Party {
	p, err := s.svc.Company.CreateParty(s.ctx, s.admin, dto.CreatePartyRequest{Kind: kind, Name: name})
	s.Require().NoError(err)
	return p
}

func (s *LedgerSuite) product(name string, cost string, qty int64) *domain.Product {
	p, err := s.svc.Inventory.CreateProduct(s.ctx, s.admin, dto.CreateProductRequest{
		Name:          name,
		CostPrice:     dec(cost),
		SalePrice:     dec(cost).Mul(dec("2")),
		StockQuantity: qty,
	})
	s.Require().NoError(err)
	return p
}

func (s *LedgerSuite) stockOf(productID string) int64 {
	products, err := s.svc.Inventory.ListProducts(s.ctx, s.admin)
	s.Require().NoError(err)
	for _, p := range products {
		if p.ProductID == productID {
			return p.StockQuantity
		}
	}
	s.FailNow("product not found", productID)
	return 0
}

func (s *LedgerSuite) manualEntry(debit, credit string, debitAmount, creditAmount string) (*domain.Transaction, error) {
	accounts := s.accounts()
	return s.svc.Journal.CreateManualEntry(s.ctx, s.admin, dto.CreateJournalEntryRequest{
		Date:        fixedNow,
		Description: "Owner contribution",
		Lines: []dto.JournalLineRequest{
			{AccountID: accounts[debit].AccountID, Side: domain.Debit, Amount: dec(debitAmount)},
			{AccountID: accounts[credit].AccountID, Side: domain.Credit, Amount: dec(creditAmount)},
		},
	})
}

func (s *LedgerSuite) purchase(vendor *domain.Party, product *domain.Product, qty int64, price, discount string) *domain.Order {
	order, err := s.svc.Order.CreateOrder(s.ctx, s.admin, domain.PurchaseOrder, dto.CreateOrderRequest{
		PartyID:   vendor.PartyID,
		OrderDate: fixedNow,
		Discount:  dec(discount),
		Items:     []dto.OrderItemRequest{{ProductID: product.ProductID, Quantity: qty, UnitPrice: dec(price)}},
	})
	s.Require().NoError(err)
	return order
}

func (s *LedgerSuite) moveOrder(kind domain.OrderKind, orderID string, next domain.OrderStatus) (*domain.Order, error) {
	return s.svc.Order.UpdateOrderStatus(s.ctx, s.admin, kind, orderID, next)
}

func (s *LedgerSuite) TestOnboardSeedsChartOnce() {
	accounts := s.accounts()
	s.Len(accounts, len(domain.DefaultChart))
	s.Contains(accounts, domain.TitleCash)

	_, err := s.svc.Company.OnboardCompany(s.ctx, s.admin, dto.CreateCompanyRequest{Name: "Again"})
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *LedgerSuite) TestCreatePartyAddsAccountPair() {
	vendor := s.party(domain.PartyVendor, "Globex")
	accounts := s.accounts()
	s.Contains(accounts, vendor.SubAccountTitle())
	s.Contains(accounts, vendor.ContraAccountTitle())
	s.Equal(domain.Contra, accounts[vendor.ContraAccountTitle()].AccountType)
}

func (s *LedgerSuite) TestInitialStockIsCapitalized() {
	s.product("Widget", "5", 10)

	s.assertBalances(map[string]string{
		domain.TitleStock:         "50",
		domain.TitleOwnersCapital: "50",
	})
	s.assertLedgerConsistent()
	s.Require().Len(s.publisher.events, 1)
	s.Equal(domain.MovementInitialStock, s.publisher.events[0].MovementType)
}

func (s *LedgerSuite) TestStockAdjustmentPostsDelta() {
	p := s.product("Widget", "5", 10)

	qty := int64(4)
	updated, err := s.svc.Inventory.UpdateStock(s.ctx, s.admin, p.ProductID, dto.UpdateStockRequest{StockQuantity: &qty})
	s.Require().NoError(err)
	s.Equal(int64(4), updated.StockQuantity)
	s.Equal(*p.TransactionID, *updated.TransactionID)

	s.assertBalances(map[string]string{
		domain.TitleStock:            "20",
		domain.TitleStockAdjustments: "30",
	})
	s.assertLedgerConsistent()
}

func (s *LedgerSuite) TestPurchaseInvoiceWithDiscountThenPay() {
	vendor := s.party(domain.PartyVendor, "Globex")
	p := s.product("Widget", "20", 0)
	order := s.purchase(vendor, p, 3, "20", "5")

	invoiced, err := s.moveOrder(domain.PurchaseOrder, order.OrderID, domain.OrderInvoiced)
	s.Require().NoError(err)
	s.Require().NotNil(invoiced.TransactionID)
	s.Equal(int64(3), s.stockOf(p.ProductID))
	s.assertBalances(map[string]string{
		domain.TitleStock:             "60",
		domain.TitleAccountsPayable:   "55",
		domain.TitlePurchaseDiscounts: "5",
		vendor.SubAccountTitle():      "55",
		vendor.ContraAccountTitle():   "55",
	})

	paid, err := s.moveOrder(domain.PurchaseOrder, order.OrderID, domain.OrderPaid)
	s.Require().NoError(err)
	s.Equal(*invoiced.TransactionID, *paid.TransactionID)
	s.assertBalances(map[string]string{
		domain.TitleAccountsPayable: "0",
		domain.TitleCash:            "-55",
		vendor.SubAccountTitle():    "0",
		vendor.ContraAccountTitle(): "0",
	})

	txn, err := s.svc.Journal.GetTransaction(s.ctx, s.admin, *paid.TransactionID)
	s.Require().NoError(err)
	s.Len(txn.Lines, 12)
	s.True(domain.TotalsOf(txn.Lines).IsBalanced())
	s.assertLedgerConsistent()
}

func (s *LedgerSuite) TestCancelPaidPurchaseRestoresEverything() {
	vendor := s.party(domain.PartyVendor, "Globex")
	p := s.product("Widget", "20", 0)
	order := s.purchase(vendor, p, 3, "20", "5")
	_, err := s.moveOrder(domain.PurchaseOrder, order.OrderID, domain.OrderInvoiced)
	s.Require().NoError(err)
	_, err = s.moveOrder(domain.PurchaseOrder, order.OrderID, domain.OrderPaid)
	s.Require().NoError(err)

	canceled, err := s.moveOrder(domain.PurchaseOrder, order.OrderID, domain.OrderCanceled)
	s.Require().NoError(err)
	s.Equal(domain.OrderCanceled, canceled.Status)
	s.True(canceled.IsDeleted)
	s.Equal(int64(0), s.stockOf(p.ProductID))

	zero := map[string]string{}
	for _, title := range []string{domain.TitleStock, domain.TitleAccountsPayable, domain.TitlePurchaseDiscounts, domain.TitleCash, vendor.SubAccountTitle(), vendor.ContraAccountTitle()} {
		zero[title] = "0"
	}
	s.assertBalances(zero)
	s.assertLedgerConsistent()

	_, err = s.moveOrder(domain.PurchaseOrder, order.OrderID, domain.OrderInvoiced)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (s *LedgerSuite) TestCancelPurchaseFailsWhenGoodsWereSold() {
	vendor := s.party(domain.PartyVendor, "Globex")
	customer := s.party(domain.PartyCustomer, "Initech")
	p := s.product("Widget", "20", 0)
	purchase := s.purchase(vendor, p, 3, "20", "0")
	_, err := s.moveOrder(domain.PurchaseOrder, purchase.OrderID, domain.OrderInvoiced)
	s.Require().NoError(err)

	sale, err := s.svc.Order.CreateOrder(s.ctx, s.admin, domain.SalesOrder, dto.CreateOrderRequest{
		PartyID:   customer.PartyID,
		OrderDate: fixedNow,
		Items:     []dto.OrderItemRequest{{ProductID: p.ProductID, Quantity: 2, UnitPrice: dec("50")}},
	})
	s.Require().NoError(err)
	_, err = s.moveOrder(domain.SalesOrder, sale.OrderID, domain.OrderInvoiced)
	s.Require().NoError(err)
	s.assertBalances(map[string]string{
		domain.TitleAccountsReceivable: "100",
		domain.TitleSalesRevenue:       "100",
		domain.TitleCostOfGoodsSold:    "40",
		domain.TitleStock:              "20",
	})

	before := s.store.LineCount()
	_, err = s.moveOrder(domain.PurchaseOrder, purchase.OrderID, domain.OrderCanceled)
	s.ErrorIs(err, apperrors.ErrInsufficientStock)
	s.Equal(before, s.store.LineCount())
	s.Equal(int64(1), s.stockOf(p.ProductID))
}

func (s *LedgerSuite) TestSaleBeyondStockIsRejected() {
	customer := s.party(domain.PartyCustomer, "Initech")
	p := s.product("Widget", "20", 1)
	sale, err := s.svc.Order.CreateOrder(s.ctx, s.admin, domain.SalesOrder, dto.CreateOrderRequest{
		PartyID:   customer.PartyID,
		OrderDate: fixedNow,
		Items:     []dto.OrderItemRequest{{ProductID: p.ProductID, Quantity: 2, UnitPrice: dec("50")}},
	})
	s.Require().NoError(err)

	_, err = s.moveOrder(domain.SalesOrder, sale.OrderID, domain.OrderInvoiced)
	s.ErrorIs(err, apperrors.ErrInsufficientStock)
	s.Equal(int64(1), s.stockOf(p.ProductID))
}

func (s *LedgerSuite) TestOrderTransitionGuard() {
	vendor := s.party(domain.PartyVendor, "Globex")
	p := s.product("Widget", "20", 0)
	order := s.purchase(vendor, p, 1, "20", "0")

	_, err := s.moveOrder(domain.PurchaseOrder, order.OrderID, domain.OrderPaid)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)

	opened, err := s.moveOrder(domain.PurchaseOrder, order.OrderID, domain.OrderOpen)
	s.Require().NoError(err)
	s.Equal(domain.OrderOpen, opened.Status)
	s.Zero(s.store.LineCount())

	_, err = s.moveOrder(domain.PurchaseOrder, order.OrderID, domain.OrderDraft)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (s *LedgerSuite) TestCreateOrderValidation() {
	vendor := s.party(domain.PartyVendor, "Globex")
	customer := s.party(domain.PartyCustomer, "Initech")
	p := s.product("Widget", "20", 0)

	cases := map[string]dto.CreateOrderRequest{
		"wrong party kind": {PartyID: customer.PartyID, OrderDate: fixedNow,
			Items: []dto.OrderItemRequest{{ProductID: p.ProductID, Quantity: 1, UnitPrice: dec("10")}}},
		"discount equals total": {PartyID: vendor.PartyID, OrderDate: fixedNow, Discount: dec("10"),
			Items: []dto.OrderItemRequest{{ProductID: p.ProductID, Quantity: 1, UnitPrice: dec("10")}}},
		"zero price": {PartyID: vendor.PartyID, OrderDate: fixedNow,
			Items: []dto.OrderItemRequest{{ProductID: p.ProductID, Quantity: 1, UnitPrice: decimal.Zero}}},
		"price beyond storage scale": {PartyID: vendor.PartyID, OrderDate: fixedNow,
			Items: []dto.OrderItemRequest{{ProductID: p.ProductID, Quantity: 1, UnitPrice: dec("10.00001")}}},
		"discount beyond storage scale": {PartyID: vendor.PartyID, OrderDate: fixedNow, Discount: dec("0.00001"),
			Items: []dto.OrderItemRequest{{ProductID: p.ProductID, Quantity: 1, UnitPrice: dec("10")}}},
	}
	for name, req := range cases {
		_, err := s.svc.Order.CreateOrder(s.ctx, s.admin, domain.PurchaseOrder, req)
		s.ErrorIs(err, apperrors.ErrValidation, name)
	}

	_, err := s.svc.Order.CreateOrder(s.ctx, s.admin, domain.PurchaseOrder, dto.CreateOrderRequest{
		PartyID: vendor.PartyID, OrderDate: fixedNow,
		Items: []dto.OrderItemRequest{{ProductID: "missing", Quantity: 1, UnitPrice: dec("10")}},
	})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerSuite) createPayRun() *domain.PayRun {
	alice := s.party(domain.PartyEmployee, "Alice")
	bob := s.party(domain.PartyEmployee, "Bob")
	run, err := s.svc.Payroll.CreatePayRun(s.ctx, s.admin, dto.CreatePayRunRequest{
		PeriodStart: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
		PayDate:     time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Slips: []dto.PaySlipRequest{
			{EmployeeID: alice.PartyID, BaseSalary: dec("900"), Items: []dto.PaySlipItemRequest{
				{Label: "Bonus", Kind: domain.PaySlipEarning, Amount: dec("150")},
				{Label: "Advance", Kind: domain.PaySlipDeduction, Amount: dec("50")},
			}},
			{EmployeeID: bob.PartyID, BaseSalary: dec("1500")},
		},
	})
	s.Require().NoError(err)
	return run
}

func (s *LedgerSuite) TestApprovePayRunPostsSalaryEarned() {
	run := s.createPayRun()
	s.Zero(s.store.LineCount())

	approved, err := s.svc.Payroll.ApprovePayRun(s.ctx, s.admin, run.PayRunID)
	s.Require().NoError(err)
	s.Equal(domain.PayRunApproved, approved.Status)
	s.True(approved.IsLocked)
	s.Require().NotNil(approved.TransactionID)
	for _, slip := range approved.Slips {
		s.True(slip.IsLocked)
	}

	s.assertBalances(map[string]string{
		domain.TitleSalariesExpense:   "2500",
		domain.TitleSalariesPayable:   "2500",
		"Alice Salary Payable":        "1000",
		"Alice Salary Payable Contra": "1000",
		"Bob Salary Payable":          "1500",
	})
	s.assertLedgerConsistent()

	_, err = s.svc.Payroll.ApprovePayRun(s.ctx, s.admin, run.PayRunID)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (s *LedgerSuite) TestCashOutOnlyOnce() {
	run := s.createPayRun()

	_, err := s.svc.Payroll.CashOutPayRun(s.ctx, s.admin, run.PayRunID)
	s.ErrorIs(err, apperrors.ErrInvalidTransition, "draft runs cannot be cashed out")

	_, err = s.svc.Payroll.ApprovePayRun(s.ctx, s.admin, run.PayRunID)
	s.Require().NoError(err)
	cashed, err := s.svc.Payroll.CashOutPayRun(s.ctx, s.admin, run.PayRunID)
	s.Require().NoError(err)
	s.True(cashed.CashedOut)
	s.assertBalances(map[string]string{
		domain.TitleSalariesPayable: "0",
		domain.TitleCash:            "-2500",
		"Alice Salary Payable":      "0",
	})

	lines := s.store.LineCount()
	_, err = s.svc.Payroll.CashOutPayRun(s.ctx, s.admin, run.PayRunID)
	s.ErrorIs(err, apperrors.ErrAlreadyPerformed)
	s.Equal(lines, s.store.LineCount())

	err = s.svc.Payroll.DeletePayRun(s.ctx, s.admin, run.PayRunID)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (s *LedgerSuite) TestDeleteApprovedPayRunReverses() {
	run := s.createPayRun()
	_, err := s.svc.Payroll.ApprovePayRun(s.ctx, s.admin, run.PayRunID)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Payroll.DeletePayRun(s.ctx, s.admin, run.PayRunID))
	s.assertBalances(map[string]string{
		domain.TitleSalariesExpense: "0",
		domain.TitleSalariesPayable: "0",
	})
	stored, ok := s.store.PayRun(run.PayRunID)
	s.Require().True(ok)
	s.True(stored.IsDeleted)
	for _, slip := range stored.Slips {
		s.True(slip.IsDeleted)
	}
	s.assertLedgerConsistent()
}

func (s *LedgerSuite) TestUnbalancedEntryWritesNothing() {
	_, err := s.manualEntry(domain.TitleCash, domain.TitleOwnersCapital, "100", "90")
	s.ErrorIs(err, apperrors.ErrUnbalanced)
	s.Zero(s.store.LineCount())
	s.Empty(s.publisher.events)
}

func (s *LedgerSuite) TestAmountsBeyondStorageScaleAreRejected() {
	accounts := s.accounts()
	_, err := s.svc.Journal.CreateManualEntry(s.ctx, s.admin, dto.CreateJournalEntryRequest{
		Date:        fixedNow,
		Description: "Sub-cent split",
		Lines: []dto.JournalLineRequest{
			{AccountID: accounts[domain.TitleCash].AccountID, Side: domain.Debit, Amount: dec("0.00005")},
			{AccountID: accounts[domain.TitleCash].AccountID, Side: domain.Debit, Amount: dec("0.00005")},
			{AccountID: accounts[domain.TitleOwnersCapital].AccountID, Side: domain.Credit, Amount: dec("0.0001")},
		},
	})
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Zero(s.store.LineCount())

	_, err = s.svc.Inventory.CreateProduct(s.ctx, s.admin, dto.CreateProductRequest{
		Name: "Screw", CostPrice: dec("0.00012"), SalePrice: dec("1"), StockQuantity: 3,
	})
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Zero(s.store.LineCount())

	alice := s.party(domain.PartyEmployee, "Alice")
	_, err = s.svc.Payroll.CreatePayRun(s.ctx, s.admin, dto.CreatePayRunRequest{
		PeriodStart: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
		PayDate:     time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Slips: []dto.PaySlipRequest{
			{EmployeeID: alice.PartyID, BaseSalary: dec("900.12345")},
		},
	})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerSuite) TestManualEntryAndReversal() {
	txn, err := s.manualEntry(domain.TitleCash, domain.TitleOwnersCapital, "100", "100")
	s.Require().NoError(err)
	s.Equal(int64(1), txn.TransactionID)
	s.assertBalances(map[string]string{domain.TitleCash: "100", domain.TitleOwnersCapital: "100"})

	reversal, err := s.svc.Journal.ReverseTransaction(s.ctx, s.admin, txn.TransactionID)
	s.Require().NoError(err)
	s.Equal(int64(2), reversal.TransactionID)
	for _, l := range reversal.Lines {
		s.Require().NotNil(l.ReversesTransactionID)
		s.Equal(txn.TransactionID, *l.ReversesTransactionID)
		s.Equal(domain.MovementReversal, l.MovementType)
	}
	s.assertBalances(map[string]string{domain.TitleCash: "0", domain.TitleOwnersCapital: "0"})

	_, err = s.svc.Journal.ReverseTransaction(s.ctx, s.admin, txn.TransactionID)
	s.ErrorIs(err, apperrors.ErrAlreadyReversed)

	_, err = s.svc.Journal.ReverseTransaction(s.ctx, s.admin, 99)
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.svc.Journal.ReverseTransaction(s.ctx, s.admin, reversal.TransactionID)
	s.ErrorIs(err, apperrors.ErrDocumentOwned)
}

func (s *LedgerSuite) TestDocumentTransactionsCannotBeReversedManually() {
	vendor := s.party(domain.PartyVendor, "Globex")
	p := s.product("Widget", "20", 0)
	order := s.purchase(vendor, p, 3, "20", "0")
	invoiced, err := s.moveOrder(domain.PurchaseOrder, order.OrderID, domain.OrderInvoiced)
	s.Require().NoError(err)
	lines := s.store.LineCount()

	_, err = s.svc.Journal.ReverseTransaction(s.ctx, s.admin, *invoiced.TransactionID)
	s.ErrorIs(err, apperrors.ErrDocumentOwned)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Equal(lines, s.store.LineCount())

	canceled, err := s.moveOrder(domain.PurchaseOrder, order.OrderID, domain.OrderCanceled)
	s.Require().NoError(err)
	s.Equal(domain.OrderCanceled, canceled.Status)
	s.Equal(int64(0), s.stockOf(p.ProductID))
	s.assertBalances(map[string]string{domain.TitleStock: "0", domain.TitleAccountsPayable: "0"})
	s.assertLedgerConsistent()
}

func (s *LedgerSuite) TestAccountLedgerPages() {
	for i := 0; i < 3; i++ {
		_, err := s.manualEntry(domain.TitleCash, domain.TitleOwnersCapital, "10", "10")
		s.Require().NoError(err)
	}
	cash := s.accounts()[domain.TitleCash]

	page, err := s.svc.Journal.ListAccountLedger(s.ctx, s.admin, cash.AccountID, dto.ListLedgerParams{Limit: 2})
	s.Require().NoError(err)
	s.Len(page.Lines, 2)
	s.Require().NotNil(page.NextToken)

	rest, err := s.svc.Journal.ListAccountLedger(s.ctx, s.admin, cash.AccountID, dto.ListLedgerParams{Limit: 2, NextToken: page.NextToken})
	s.Require().NoError(err)
	s.Len(rest.Lines, 1)
	s.Nil(rest.NextToken)
}

func (s *LedgerSuite) TestForbiddenWithoutPermission() {
	reader := domain.ActingUser{UserID: "clerk", CompanyID: "acme", Permissions: []domain.Permission{domain.PermLedgerRead}}

	_, err := s.svc.Journal.CreateManualEntry(s.ctx, reader, dto.CreateJournalEntryRequest{Date: fixedNow, Description: "x"})
	s.ErrorIs(err, apperrors.ErrForbidden)
	_, err = s.svc.Payroll.ApprovePayRun(s.ctx, reader, "any")
	s.ErrorIs(err, apperrors.ErrForbidden)

	_, err = s.svc.Account.GetAccounts(s.ctx, reader)
	s.NoError(err)

	outsider := domain.ActingUser{UserID: "x", Permissions: []domain.Permission{domain.PermCompanyAdmin}}
	_, err = s.svc.Account.GetAccounts(s.ctx, outsider)
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *LedgerSuite) TestExpiredSubscriptionBlocksPosting() {
	ended := fixedNow.AddDate(0, 0, -30)
	s.Require().NoError(s.store.UpsertSubscription(s.ctx, domain.Subscription{
		CompanyID: "acme",
		Plan:      domain.Plan{PlanCode: "pro", Name: "Pro"},
		StartsAt:  fixedNow.AddDate(-1, 0, 0),
		EndsAt:    &ended,
	}))

	_, err := s.manualEntry(domain.TitleCash, domain.TitleOwnersCapital, "100", "100")
	s.ErrorIs(err, apperrors.ErrSubscriptionExpired)
	s.Zero(s.store.LineCount())

	// documents without postings are not metered
	_, err = s.svc.Company.CreateParty(s.ctx, s.admin, dto.CreatePartyRequest{Kind: domain.PartyVendor, Name: "Globex"})
	s.NoError(err)

	usage, err := s.svc.Usage.GetUsage(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Equal(domain.SubscriptionExpired, usage.State)
}

func (s *LedgerSuite) TestGraceStillPosts() {
	ended := fixedNow.AddDate(0, 0, -2)
	s.Require().NoError(s.store.UpsertSubscription(s.ctx, domain.Subscription{
		CompanyID: "acme",
		Plan:      domain.Plan{PlanCode: "pro"},
		StartsAt:  fixedNow.AddDate(-1, 0, 0),
		EndsAt:    &ended,
	}))

	_, err := s.manualEntry(domain.TitleCash, domain.TitleOwnersCapital, "100", "100")
	s.NoError(err)
}

func (s *LedgerSuite) limitDailyJournals(limit int64) {
	s.Require().NoError(s.store.UpsertSubscription(s.ctx, domain.Subscription{
		CompanyID: "acme",
		Plan:      domain.Plan{PlanCode: "starter", DailyTransactionLimit: &limit},
		StartsAt:  fixedNow.AddDate(0, -1, 0),
	}))
}

func (s *LedgerSuite) journalCount() int64 {
	usage, err := s.svc.Usage.GetUsage(s.ctx, s.admin)
	s.Require().NoError(err)
	return usage.Counters.JournalCount
}

func (s *LedgerSuite) TestDailyLimitCountsEveryBatch() {
	s.limitDailyJournals(3)

	// invoice and discount are two batches under one transaction id
	vendor := s.party(domain.PartyVendor, "Globex")
	p := s.product("Widget", "20", 0)
	order := s.purchase(vendor, p, 3, "20", "5")
	_, err := s.moveOrder(domain.PurchaseOrder, order.OrderID, domain.OrderInvoiced)
	s.Require().NoError(err)
	s.Equal(int64(2), s.journalCount())

	_, err = s.manualEntry(domain.TitleCash, domain.TitleOwnersCapital, "1", "1")
	s.Require().NoError(err)
	s.Equal(int64(3), s.journalCount())

	_, err = s.manualEntry(domain.TitleCash, domain.TitleOwnersCapital, "1", "1")
	s.ErrorIs(err, apperrors.ErrLimitReached)
	s.Equal(int64(3), s.journalCount())
}

func (s *LedgerSuite) TestDailyLimitReachedMidUnitRollsBack() {
	s.limitDailyJournals(1)

	vendor := s.party(domain.PartyVendor, "Globex")
	p := s.product("Widget", "20", 0)
	order := s.purchase(vendor, p, 3, "20", "5")

	_, err := s.moveOrder(domain.PurchaseOrder, order.OrderID, domain.OrderInvoiced)
	s.ErrorIs(err, apperrors.ErrLimitReached)
	s.Zero(s.store.LineCount())
	s.Zero(s.journalCount())
	s.Equal(int64(0), s.stockOf(p.ProductID))
	s.Empty(s.publisher.events)
}

func (s *LedgerSuite) TestOneEventPerTransaction() {
	vendor := s.party(domain.PartyVendor, "Globex")
	p := s.product("Widget", "20", 0)
	order := s.purchase(vendor, p, 3, "20", "5")

	invoiced, err := s.moveOrder(domain.PurchaseOrder, order.OrderID, domain.OrderInvoiced)
	s.Require().NoError(err)

	s.Require().Len(s.publisher.events, 1)
	ev := s.publisher.events[0]
	s.Equal(*invoiced.TransactionID, ev.TransactionID)
	s.Equal(domain.MovementPurchase, ev.MovementType)
	s.Equal(8, ev.LineCount)
	s.True(dec("130").Equal(ev.Totals.Debit), "debit %s", ev.Totals.Debit)
	s.True(ev.Totals.IsBalanced())
}

func (s *LedgerSuite) TestConcurrencyFailureIsRetriedOnce() {
	s.store.FailNextCommits(apperrors.ErrConcurrency)

	txn, err := s.manualEntry(domain.TitleCash, domain.TitleOwnersCapital, "100", "100")
	s.Require().NoError(err)
	s.Equal(int64(1), txn.TransactionID)
	s.Equal(2, s.store.LineCount())
	s.Len(s.publisher.events, 1)
	s.assertLedgerConsistent()
}

func (s *LedgerSuite) TestRepeatedConcurrencyFailureLeavesNoTrace() {
	s.store.FailNextCommits(apperrors.ErrConcurrency, apperrors.ErrConcurrency)

	_, err := s.manualEntry(domain.TitleCash, domain.TitleOwnersCapital, "100", "100")
	s.ErrorIs(err, apperrors.ErrConcurrency)
	s.Zero(s.store.LineCount())
	s.Empty(s.publisher.events)

	usage, err := s.svc.Usage.GetUsage(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Zero(usage.Counters.JournalCount)
}

func (s *LedgerSuite) TestMissingWellKnownAccount() {
	s.Require().True(s.store.DeleteAccountByTitle("acme", domain.TitleStock))

	_, err := s.svc.Inventory.CreateProduct(s.ctx, s.admin, dto.CreateProductRequest{Name: "Widget", CostPrice: dec("5"), StockQuantity: 1})
	s.ErrorIs(err, apperrors.ErrRequiredAccounts)
	s.Contains(err.Error(), domain.TitleStock)
}

func (s *LedgerSuite) TestStaleCacheIsRepairedByRecalculation() {
	_, err := s.manualEntry(domain.TitleCash, domain.TitleOwnersCapital, "100", "100")
	s.Require().NoError(err)

	count, err := s.svc.Account.RecalculateBalances(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Equal(len(domain.DefaultChart), count)
	s.assertLedgerConsistent()
}

func (s *LedgerSuite) TestReports() {
	s.product("Widget", "5", 10)
	_, err := s.manualEntry(domain.TitleCash, domain.TitleSalesRevenue, "300", "300")
	s.Require().NoError(err)
	_, err = s.manualEntry(domain.TitleSalariesExpense, domain.TitleCash, "120", "120")
	s.Require().NoError(err)

	tb, err := s.svc.Reporting.TrialBalance(s.ctx, s.admin, fixedNow)
	s.Require().NoError(err)
	s.True(tb.TotalDebit.Equal(tb.TotalCredit))

	is, err := s.svc.Reporting.IncomeStatement(s.ctx, s.admin, fixedNow, fixedNow)
	s.Require().NoError(err)
	s.True(dec("300").Equal(is.TotalIncome), is.TotalIncome.String())
	s.True(dec("120").Equal(is.TotalExpense), is.TotalExpense.String())
	s.True(dec("180").Equal(is.NetIncome), is.NetIncome.String())

	bs, err := s.svc.Reporting.BalanceSheet(s.ctx, s.admin, fixedNow)
	s.Require().NoError(err)
	s.True(dec("230").Equal(bs.TotalAssets), bs.TotalAssets.String())
	s.True(dec("180").Equal(bs.RetainedEarnings), bs.RetainedEarnings.String())
	s.True(bs.TotalAssets.Equal(bs.TotalLiabilities.Add(bs.TotalEquity)))

	cf, err := s.svc.Reporting.CashFlow(s.ctx, s.admin, fixedNow, fixedNow)
	s.Require().NoError(err)
	s.True(cf.OpeningBalance.IsZero())
	s.True(dec("180").Equal(cf.NetChange), cf.NetChange.String())
	s.True(dec("180").Equal(cf.ClosingBalance), cf.ClosingBalance.String())

	earlier, err := s.svc.Reporting.IncomeStatement(s.ctx, s.admin, fixedNow.AddDate(0, 0, -10), fixedNow.AddDate(0, 0, -1))
	s.Require().NoError(err)
	s.True(earlier.NetIncome.IsZero())
}

func (s *LedgerSuite) TestRecordBackupUsesMonthlyLimit() {
	limit := int64(1)
	s.Require().NoError(s.store.UpsertSubscription(s.ctx, domain.Subscription{
		CompanyID: "acme",
		Plan:      domain.Plan{PlanCode: "starter", MonthlyBackupLimit: &limit},
		StartsAt:  fixedNow.AddDate(0, -1, 0),
	}))

	report, err := s.svc.Usage.RecordBackup(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Equal(int64(1), report.Counters.BackupCount)

	_, err = s.svc.Usage.RecordBackup(s.ctx, s.admin)
	s.ErrorIs(err, apperrors.ErrLimitReached)
}
