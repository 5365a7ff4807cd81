package pgsql

import (
	"context"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxCompanyRepository persists companies and their parties.
type PgxCompanyRepository struct {
	BaseRepository
}

func newPgxCompanyRepository(pool *pgxpool.Pool) *PgxCompanyRepository {
	return &PgxCompanyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CompanyRepository = (*PgxCompanyRepository)(nil)

func (r *PgxCompanyRepository) SaveCompany(ctx context.Context, tx pgx.Tx, company domain.Company) error {
	if err := requireTx(tx, "save company"); err != nil {
		return err
	}
	query := `
		INSERT INTO companies (company_id, name, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6);`

	_, err := tx.Exec(ctx, query,
		company.CompanyID,
		company.Name,
		company.CreatedAt,
		company.CreatedBy,
		company.LastUpdatedAt,
		company.LastUpdatedBy,
	)
	return mapPgError(err, "save company")
}

func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, tx pgx.Tx, companyID string) (*domain.Company, error) {
	query := `
		SELECT company_id, name, created_at, created_by, last_updated_at, last_updated_by
		FROM companies
		WHERE company_id = $1;`

	var c domain.Company
	err := r.q(tx).QueryRow(ctx, query, companyID).Scan(
		&c.CompanyID,
		&c.Name,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapPgError(err, "find company "+companyID)
	}
	return &c, nil
}

func (r *PgxCompanyRepository) SaveParty(ctx context.Context, tx pgx.Tx, party domain.Party) error {
	if err := requireTx(tx, "save party"); err != nil {
		return err
	}
	query := `
		INSERT INTO parties (party_id, company_id, kind, name, is_deleted, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	_, err := tx.Exec(ctx, query,
		party.PartyID,
		party.CompanyID,
		string(party.Kind),
		party.Name,
		party.IsDeleted,
		party.CreatedAt,
		party.CreatedBy,
		party.LastUpdatedAt,
		party.LastUpdatedBy,
	)
	return mapPgError(err, "save party")
}

func (r *PgxCompanyRepository) FindPartyByID(ctx context.Context, tx pgx.Tx, companyID, partyID string) (*domain.Party, error) {
	query := `
		SELECT party_id, company_id, kind, name, is_deleted, created_at, created_by, last_updated_at, last_updated_by
		FROM parties
		WHERE company_id = $1 AND party_id = $2 AND NOT is_deleted;`

	var (
		p    domain.Party
		kind string
	)
	err := r.q(tx).QueryRow(ctx, query, companyID, partyID).Scan(
		&p.PartyID,
		&p.CompanyID,
		&kind,
		&p.Name,
		&p.IsDeleted,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapPgError(err, "find party "+partyID)
	}
	p.Kind = domain.PartyKind(kind)
	return &p, nil
}
