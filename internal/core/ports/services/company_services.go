package services

import (
	"context"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/SscSPs/bizledger_app/internal/dto"
)

// CompanySvcFacade onboards companies and their parties.
type CompanySvcFacade interface {
	// OnboardCompany creates the acting user's company and seeds its default chart of accounts.
	OnboardCompany(ctx context.Context, actor domain.ActingUser, req dto.CreateCompanyRequest) (*domain.Company, error)

	GetCompany(ctx context.Context, actor domain.ActingUser) (*domain.Company, error)

	// CreateParty creates a vendor, customer or employee together with its sub/contra account pair.
	CreateParty(ctx context.Context, actor domain.ActingUser, req dto.CreatePartyRequest) (*domain.Party, error)
}
