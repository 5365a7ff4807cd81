package repositories

import (
	"context"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CompanyRepository persists companies and their parties.
type CompanyRepository interface {
	SaveCompany(ctx context.Context, tx pgx.Tx, company domain.Company) error
	FindCompanyByID(ctx context.Context, tx pgx.Tx, companyID string) (*domain.Company, error)

	SaveParty(ctx context.Context, tx pgx.Tx, party domain.Party) error
	FindPartyByID(ctx context.Context, tx pgx.Tx, companyID, partyID string) (*domain.Party, error)
}
