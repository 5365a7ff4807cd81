package dto

import "github.com/SscSPs/bizledger_app/internal/core/domain"

// CreateCompanyRequest onboards the caller's company.
type CreateCompanyRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

// CreatePartyRequest onboards a vendor, customer or employee.
type CreatePartyRequest struct {
	Kind domain.PartyKind `json:"kind" binding:"required,oneof=VENDOR CUSTOMER EMPLOYEE"`
	Name string           `json:"name" binding:"required,max=150"`
}

// PartyResponse returns the party with the titles of its sub-account pair.
type PartyResponse struct {
	PartyID            string           `json:"partyID"`
	Kind               domain.PartyKind `json:"kind"`
	Name               string           `json:"name"`
	SubAccountTitle    string           `json:"subAccountTitle"`
	ContraAccountTitle string           `json:"contraAccountTitle"`
}

func ToPartyResponse(p *domain.Party) PartyResponse {
	return PartyResponse{
		PartyID:            p.PartyID,
		Kind:               p.Kind,
		Name:               p.Name,
		SubAccountTitle:    p.SubAccountTitle(),
		ContraAccountTitle: p.ContraAccountTitle(),
	}
}
