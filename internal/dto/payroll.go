package dto

import (
	"time"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

type PaySlipItemRequest struct {
	Label  string                 `json:"label" binding:"required,max=100"`
	Kind   domain.PaySlipItemKind `json:"kind" binding:"required,oneof=EARNING DEDUCTION"`
	Amount decimal.Decimal        `json:"amount" binding:"gte=0"`
}

type PaySlipRequest struct {
	EmployeeID string               `json:"employeeID" binding:"required"`
	BaseSalary decimal.Decimal      `json:"baseSalary" binding:"gte=0"`
	Items      []PaySlipItemRequest `json:"items" binding:"dive"`
}

// CreatePayRunRequest creates a DRAFT pay run.
type CreatePayRunRequest struct {
	PeriodStart time.Time        `json:"periodStart" binding:"required"`
	PeriodEnd   time.Time        `json:"periodEnd" binding:"required"`
	PayDate     time.Time        `json:"payDate" binding:"required"`
	Slips       []PaySlipRequest `json:"slips" binding:"required,min=1,dive"`
}
