package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayRunStatus is the approval state of a pay run.
type PayRunStatus string

const (
	PayRunDraft    PayRunStatus = "DRAFT"
	PayRunApproved PayRunStatus = "APPROVED"
)

// PaySlipItemKind is an earning or a deduction on a payslip.
type PaySlipItemKind string

const (
	PaySlipEarning   PaySlipItemKind = "EARNING"
	PaySlipDeduction PaySlipItemKind = "DEDUCTION"
)

type PaySlipItem struct {
	ItemID    string          `json:"itemID"`
	Label     string          `json:"label"`
	Kind      PaySlipItemKind `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	IsDeleted bool            `json:"isDeleted"`
}

// PaySlip is one employee's pay in a run. It posts under the run's transaction id.
type PaySlip struct {
	PaySlipID  string          `json:"paySlipID"`
	EmployeeID string          `json:"employeeID"`
	BaseSalary decimal.Decimal `json:"baseSalary"`
	Items      []PaySlipItem   `json:"items"`
	IsLocked   bool            `json:"isLocked"`
	IsDeleted  bool            `json:"isDeleted"`
}

// NetPay is base salary plus earnings less deductions.
func (p PaySlip) NetPay() decimal.Decimal {
	net := p.BaseSalary
	for _, item := range p.Items {
		if item.IsDeleted {
			continue
		}
		if item.Kind == PaySlipDeduction {
			net = net.Sub(item.Amount)
		} else {
			net = net.Add(item.Amount)
		}
	}
	return net
}

// PayRun groups the payslips of one payroll period.
type PayRun struct {
	PayRunID      string       `json:"payRunID"`
	CompanyID     string       `json:"companyID"`
	PeriodStart   time.Time    `json:"periodStart"`
	PeriodEnd     time.Time    `json:"periodEnd"`
	PayDate       time.Time    `json:"payDate"`
	Status        PayRunStatus `json:"status"`
	IsLocked      bool         `json:"isLocked"`
	CashedOut     bool         `json:"cashedOut"`
	TransactionID *int64       `json:"transactionID,omitempty"`
	Slips         []PaySlip    `json:"slips"`
	IsDeleted     bool         `json:"isDeleted"`
	AuditFields
}

// ActiveSlips returns the payslips that have not been deleted.
func (r PayRun) ActiveSlips() []PaySlip {
	out := make([]PaySlip, 0, len(r.Slips))
	for _, s := range r.Slips {
		if !s.IsDeleted {
			out = append(out, s)
		}
	}
	return out
}

// TotalNetPay sums the net pay of the active payslips.
func (r PayRun) TotalNetPay() decimal.Decimal {
	total := decimal.Zero
	for _, s := range r.ActiveSlips() {
		total = total.Add(s.NetPay())
	}
	return total
}
