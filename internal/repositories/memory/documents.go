package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

var (
	_ portsrepo.CompanyRepository = (*Store)(nil)
	_ portsrepo.ProductRepository = (*Store)(nil)
	_ portsrepo.OrderRepository   = (*Store)(nil)
	_ portsrepo.PayrollRepository = (*Store)(nil)
)

func (s *Store) SaveCompany(ctx context.Context, tx pgx.Tx, company domain.Company) error {
	st, err := s.mutate(tx)
	if err != nil {
		return err
	}
	if _, exists := st.companies[company.CompanyID]; exists {
		return fmt.Errorf("%w: company %s", apperrors.ErrDuplicate, company.CompanyID)
	}
	st.companies[company.CompanyID] = company
	return nil
}

func (s *Store) FindCompanyByID(ctx context.Context, tx pgx.Tx, companyID string) (*domain.Company, error) {
	st, release, err := s.view(tx)
	if err != nil {
		return nil, err
	}
	defer release()

	c, ok := st.companies[companyID]
	if !ok {
		return nil, apperrors.NewNotFoundError("company")
	}
	return &c, nil
}

func (s *Store) SaveParty(ctx context.Context, tx pgx.Tx, party domain.Party) error {
	st, err := s.mutate(tx)
	if err != nil {
		return err
	}
	st.parties[party.PartyID] = party
	return nil
}

func (s *Store) FindPartyByID(ctx context.Context, tx pgx.Tx, companyID, partyID string) (*domain.Party, error) {
	st, release, err := s.view(tx)
	if err != nil {
		return nil, err
	}
	defer release()

	p, ok := st.parties[partyID]
	if !ok || p.IsDeleted || p.CompanyID != companyID {
		return nil, apperrors.NewNotFoundError("party")
	}
	return &p, nil
}

func (s *Store) SaveProduct(ctx context.Context, tx pgx.Tx, product domain.Product) error {
	st, err := s.mutate(tx)
	if err != nil {
		return err
	}
	st.products[product.ProductID] = product
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, tx pgx.Tx, product domain.Product) error {
	st, err := s.mutate(tx)
	if err != nil {
		return err
	}
	if _, ok := st.products[product.ProductID]; !ok {
		return apperrors.NewNotFoundError("product")
	}
	st.products[product.ProductID] = product
	return nil
}

func (s *Store) FindProductForUpdate(ctx context.Context, tx pgx.Tx, companyID, productID string) (*domain.Product, error) {
	st, err := s.mutate(tx)
	if err != nil {
		return nil, err
	}
	p, ok := st.products[productID]
	if !ok || p.IsDeleted || p.CompanyID != companyID {
		return nil, apperrors.NewNotFoundError("product")
	}
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context, companyID string) ([]domain.Product, error) {
	st, release, err := s.view(nil)
	if err != nil {
		return nil, err
	}
	defer release()

	var out []domain.Product
	for _, p := range st.products {
		if p.CompanyID == companyID && !p.IsDeleted {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) SaveOrder(ctx context.Context, tx pgx.Tx, order domain.Order) error {
	st, err := s.mutate(tx)
	if err != nil {
		return err
	}
	st.orders[order.OrderID] = copyOrder(order)
	return nil
}

func (s *Store) UpdateOrder(ctx context.Context, tx pgx.Tx, order domain.Order) error {
	st, err := s.mutate(tx)
	if err != nil {
		return err
	}
	existing, ok := st.orders[order.OrderID]
	if !ok {
		return apperrors.NewNotFoundError("order")
	}
	existing.Status = order.Status
	existing.TransactionID = order.TransactionID
	existing.IsDeleted = order.IsDeleted
	existing.LastUpdatedAt = order.LastUpdatedAt
	existing.LastUpdatedBy = order.LastUpdatedBy
	st.orders[order.OrderID] = existing
	return nil
}

func (s *Store) FindOrderForUpdate(ctx context.Context, tx pgx.Tx, companyID string, kind domain.OrderKind, orderID string) (*domain.Order, error) {
	st, err := s.mutate(tx)
	if err != nil {
		return nil, err
	}
	o, ok := st.orders[orderID]
	if !ok || o.CompanyID != companyID || o.Kind != kind {
		return nil, apperrors.NewNotFoundError("order")
	}
	o = copyOrder(o)
	return &o, nil
}

func (s *Store) SavePayRun(ctx context.Context, tx pgx.Tx, run domain.PayRun) error {
	st, err := s.mutate(tx)
	if err != nil {
		return err
	}
	st.payRuns[run.PayRunID] = copyPayRun(run)
	return nil
}

func (s *Store) UpdatePayRun(ctx context.Context, tx pgx.Tx, run domain.PayRun) error {
	st, err := s.mutate(tx)
	if err != nil {
		return err
	}
	existing, ok := st.payRuns[run.PayRunID]
	if !ok {
		return apperrors.NewNotFoundError("pay run")
	}
	existing.Status = run.Status
	existing.IsLocked = run.IsLocked
	existing.CashedOut = run.CashedOut
	existing.TransactionID = run.TransactionID
	existing.IsDeleted = run.IsDeleted
	existing.LastUpdatedAt = run.LastUpdatedAt
	existing.LastUpdatedBy = run.LastUpdatedBy
	for i := range existing.Slips {
		existing.Slips[i].IsLocked = existing.Slips[i].IsLocked || run.IsLocked
		existing.Slips[i].IsDeleted = existing.Slips[i].IsDeleted || run.IsDeleted
		for j := range existing.Slips[i].Items {
			existing.Slips[i].Items[j].IsDeleted = existing.Slips[i].Items[j].IsDeleted || run.IsDeleted
		}
	}
	st.payRuns[run.PayRunID] = existing
	return nil
}

func (s *Store) FindPayRunForUpdate(ctx context.Context, tx pgx.Tx, companyID, payRunID string) (*domain.PayRun, error) {
	st, err := s.mutate(tx)
	if err != nil {
		return nil, err
	}
	r, ok := st.payRuns[payRunID]
	if !ok || r.IsDeleted || r.CompanyID != companyID {
		return nil, apperrors.NewNotFoundError("pay run")
	}
	r = copyPayRun(r)
	return &r, nil
}

// PayRun returns a committed pay run, deleted or not.
func (s *Store) PayRun(payRunID string) (domain.PayRun, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.committed.payRuns[payRunID]
	return copyPayRun(r), ok
}

// Order returns a committed order, deleted or not.
func (s *Store) Order(orderID string) (domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.committed.orders[orderID]
	return copyOrder(o), ok
}
