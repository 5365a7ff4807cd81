package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
	"github.com/SscSPs/bizledger_app/internal/dto"
	"github.com/google/uuid"
)

// companyService onboards companies and parties together with their accounts.
type companyService struct {
	BaseService
	boundary    *postingBoundary
	companyRepo portsrepo.CompanyRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

func newCompanyService(boundary *postingBoundary, companyRepo portsrepo.CompanyRepository, accountRepo portsrepo.AccountRepositoryFacade) *companyService {
	return &companyService{boundary: boundary, companyRepo: companyRepo, accountRepo: accountRepo}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

// OnboardCompany creates the company the acting user is scoped to and seeds its chart.
func (s *companyService) OnboardCompany(ctx context.Context, actor domain.ActingUser, req dto.CreateCompanyRequest) (*domain.Company, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("company name is required")
	}

	var company domain.Company
	err := s.boundary.Run(ctx, actor, domain.PermCompanyAdmin, "onboard_company", func(ctx context.Context, u *UnitOfWork) error {
		if _, err := s.companyRepo.FindCompanyByID(ctx, u.Tx, u.CompanyID()); err == nil {
			return fmt.Errorf("%w: company %s", apperrors.ErrDuplicate, u.CompanyID())
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		company = domain.Company{
			CompanyID:   u.CompanyID(),
			Name:        name,
			AuditFields: newAudit(u.Actor.UserID, u.Now),
		}
		if err := s.companyRepo.SaveCompany(ctx, u.Tx, company); err != nil {
			return err
		}
		return s.accountRepo.SaveAccounts(ctx, u.Tx, chartAccounts(u.CompanyID(), domain.DefaultChart, u.Actor.UserID, u.Now))
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Company onboarded",
		slog.String("company_id", company.CompanyID),
		slog.Int("accounts_seeded", len(domain.DefaultChart)))
	return &company, nil
}

func (s *companyService) GetCompany(ctx context.Context, actor domain.ActingUser) (*domain.Company, error) {
	if err := s.Authorize(ctx, actor, domain.PermLedgerRead); err != nil {
		return nil, err
	}
	company, err := s.companyRepo.FindCompanyByID(ctx, nil, actor.CompanyID)
	if err != nil {
		s.logFailure(ctx, err, "Failed to load company", slog.String("company_id", actor.CompanyID))
		return nil, err
	}
	return company, nil
}

// CreateParty onboards a vendor, customer or employee with its sub-account pair.
func (s *companyService) CreateParty(ctx context.Context, actor domain.ActingUser, req dto.CreatePartyRequest) (*domain.Party, error) {
	if !req.Kind.IsValid() {
		return nil, apperrors.NewValidationError("unknown party kind %q", req.Kind)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("party name is required")
	}

	var party domain.Party
	err := s.boundary.Run(ctx, actor, partyPermission(req.Kind), "create_party", func(ctx context.Context, u *UnitOfWork) error {
		party = domain.Party{
			PartyID:     uuid.NewString(),
			CompanyID:   u.CompanyID(),
			Kind:        req.Kind,
			Name:        name,
			AuditFields: newAudit(u.Actor.UserID, u.Now),
		}
		if err := s.companyRepo.SaveParty(ctx, u.Tx, party); err != nil {
			return err
		}
		return s.accountRepo.SaveAccounts(ctx, u.Tx, chartAccounts(u.CompanyID(), party.SubAccountEntries(), u.Actor.UserID, u.Now))
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Party created",
		slog.String("party_id", party.PartyID),
		slog.String("kind", string(party.Kind)))
	return &party, nil
}

func partyPermission(kind domain.PartyKind) domain.Permission {
	switch kind {
	case domain.PartyVendor:
		return domain.PermPurchasesManage
	case domain.PartyCustomer:
		return domain.PermSalesManage
	default:
		return domain.PermPayrollManage
	}
}

func chartAccounts(companyID string, entries []domain.ChartEntry, userID string, now time.Time) []domain.Account {
	accounts := make([]domain.Account, len(entries))
	for i, e := range entries {
		accounts[i] = domain.Account{
			AccountID:      uuid.NewString(),
			CompanyID:      companyID,
			Title:          e.Title,
			AccountType:    e.Type,
			AccountSubType: e.SubType,
			Side:           e.Side,
			AuditFields:    newAudit(userID, now),
		}
	}
	return accounts
}

func newAudit(userID string, now time.Time) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
}

// loadParty loads a party of the expected kind.
func loadParty(ctx context.Context, repo portsrepo.CompanyRepository, u *UnitOfWork, partyID string, kind domain.PartyKind) (*domain.Party, error) {
	party, err := repo.FindPartyByID(ctx, u.Tx, u.CompanyID(), partyID)
	if err != nil {
		return nil, err
	}
	if party.Kind != kind {
		return nil, apperrors.NewValidationError("party %s is a %s, expected %s", partyID, party.Kind, kind)
	}
	return party, nil
}
