package dto

import (
	"time"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to add an account to the chart.
type CreateAccountRequest struct {
	Title          string             `json:"title" binding:"required,max=200"`
	AccountType    domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE CONTRA"`
	AccountSubType string             `json:"accountSubType" binding:"max=100"`
	Side           *domain.Side       `json:"side"` // Optional, defaults from the account type; required for CONTRA
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      string             `json:"accountID"`
	Title          string             `json:"title"`
	AccountType    domain.AccountType `json:"accountType"`
	AccountSubType string             `json:"accountSubType"`
	Side           domain.Side        `json:"side"`
	Balance        decimal.Decimal    `json:"balance"`
	CreatedAt      time.Time          `json:"createdAt"`
	CreatedBy      string             `json:"createdBy"`
	LastUpdatedAt  time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy  string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		Title:          acc.Title,
		AccountType:    acc.AccountType,
		AccountSubType: acc.AccountSubType,
		Side:           acc.Side,
		Balance:        acc.Balance,
		CreatedAt:      acc.CreatedAt,
		CreatedBy:      acc.CreatedBy,
		LastUpdatedAt:  acc.LastUpdatedAt,
		LastUpdatedBy:  acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// RecalculateResponse reports how many cached balances were refreshed.
type RecalculateResponse struct {
	AccountsRecalculated int `json:"accountsRecalculated"`
}
