package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
	"github.com/SscSPs/bizledger_app/internal/dto"
	"github.com/SscSPs/bizledger_app/internal/utils/accounting"
	"github.com/google/uuid"
)

// payrollService manages pay runs and posts salary earned and salary paid.
type payrollService struct {
	BaseService
	boundary    *postingBoundary
	payrollRepo portsrepo.PayrollRepository
	companyRepo portsrepo.CompanyRepository
}

func newPayrollService(boundary *postingBoundary, payrollRepo portsrepo.PayrollRepository, companyRepo portsrepo.CompanyRepository) *payrollService {
	return &payrollService{boundary: boundary, payrollRepo: payrollRepo, companyRepo: companyRepo}
}

var _ portssvc.PayrollSvcFacade = (*payrollService)(nil)

func (s *payrollService) CreatePayRun(ctx context.Context, actor domain.ActingUser, req dto.CreatePayRunRequest) (*domain.PayRun, error) {
	if req.PeriodEnd.Before(req.PeriodStart) {
		return nil, apperrors.NewValidationError("period end is before period start")
	}
	if len(req.Slips) == 0 {
		return nil, apperrors.NewValidationError("pay run needs at least one payslip")
	}

	var run domain.PayRun
	err := s.boundary.Run(ctx, actor, domain.PermPayrollManage, "create_payrun", func(ctx context.Context, u *UnitOfWork) error {
		run = domain.PayRun{
			PayRunID:    uuid.NewString(),
			CompanyID:   u.CompanyID(),
			PeriodStart: req.PeriodStart,
			PeriodEnd:   req.PeriodEnd,
			PayDate:     req.PayDate,
			Status:      domain.PayRunDraft,
			Slips:       make([]domain.PaySlip, len(req.Slips)),
			AuditFields: newAudit(u.Actor.UserID, u.Now),
		}
		seen := make(map[string]bool, len(req.Slips))
		for i, sr := range req.Slips {
			if seen[sr.EmployeeID] {
				return apperrors.NewValidationError("employee %s has more than one payslip", sr.EmployeeID)
			}
			seen[sr.EmployeeID] = true
			if _, err := loadParty(ctx, s.companyRepo, u, sr.EmployeeID, domain.PartyEmployee); err != nil {
				return err
			}
			if sr.BaseSalary.IsNegative() {
				return apperrors.NewValidationError("payslip %d base salary must not be negative", i)
			}
			if err := accounting.ValidateScale(fmt.Sprintf("payslip %d base salary", i), sr.BaseSalary); err != nil {
				return err
			}

			slip := domain.PaySlip{
				PaySlipID:  uuid.NewString(),
				EmployeeID: sr.EmployeeID,
				BaseSalary: sr.BaseSalary,
				Items:      make([]domain.PaySlipItem, len(sr.Items)),
			}
			for j, item := range sr.Items {
				if !item.Amount.IsPositive() {
					return apperrors.NewValidationError("payslip %d item %d amount must be positive", i, j)
				}
				if err := accounting.ValidateScale(fmt.Sprintf("payslip %d item %d amount", i, j), item.Amount); err != nil {
					return err
				}
				slip.Items[j] = domain.PaySlipItem{
					ItemID: uuid.NewString(),
					Label:  item.Label,
					Kind:   item.Kind,
					Amount: item.Amount,
				}
			}
			if slip.NetPay().IsNegative() {
				return apperrors.NewValidationError("payslip %d net pay is negative", i)
			}
			run.Slips[i] = slip
		}
		return s.payrollRepo.SavePayRun(ctx, u.Tx, run)
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Pay run created",
		slog.String("payrun_id", run.PayRunID),
		slog.Int("payslips", len(run.Slips)))
	return &run, nil
}

// ApprovePayRun locks the payslips and posts salary earned:
// Dr Salaries Expense / Cr Salaries Payable and each employee's pair.
func (s *payrollService) ApprovePayRun(ctx context.Context, actor domain.ActingUser, payRunID string) (*domain.PayRun, error) {
	var run *domain.PayRun
	err := s.boundary.Run(ctx, actor, domain.PermPayrollManage, "approve_payrun", func(ctx context.Context, u *UnitOfWork) error {
		var err error
		run, err = s.payrollRepo.FindPayRunForUpdate(ctx, u.Tx, u.CompanyID(), payRunID)
		if err != nil {
			return err
		}
		if run.Status != domain.PayRunDraft {
			return fmt.Errorf("%w: pay run is %s", apperrors.ErrInvalidTransition, run.Status)
		}

		lines, err := s.salaryLines(ctx, u, run, domain.TitleSalariesExpense, domain.TitleSalariesPayable, true)
		if err != nil {
			return err
		}
		if len(lines) > 0 {
			id, err := u.NextTransactionID(ctx)
			if err != nil {
				return err
			}
			if _, err := u.Post(ctx, domain.PostingRequest{
				Lines:       lines,
				Date:        run.PeriodEnd,
				Description: fmt.Sprintf("Salaries earned for %s to %s", run.PeriodStart.Format("2006-01-02"), run.PeriodEnd.Format("2006-01-02")),
				Meta:        domain.PostingMeta{MovementType: domain.MovementSalaryEarned, TransactionID: id},
			}); err != nil {
				return err
			}
			run.TransactionID = &id
		}

		run.Status = domain.PayRunApproved
		run.IsLocked = true
		for i := range run.Slips {
			run.Slips[i].IsLocked = true
		}
		run.LastUpdatedAt = u.Now
		run.LastUpdatedBy = u.Actor.UserID
		return s.payrollRepo.UpdatePayRun(ctx, u.Tx, *run)
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Pay run approved", slog.String("payrun_id", payRunID))
	return run, nil
}

// CashOutPayRun pays an approved run once: Dr Salaries Payable / Cr Cash and each
// employee's pair, under the run's transaction id.
func (s *payrollService) CashOutPayRun(ctx context.Context, actor domain.ActingUser, payRunID string) (*domain.PayRun, error) {
	var run *domain.PayRun
	err := s.boundary.Run(ctx, actor, domain.PermPayrollManage, "cash_out_payrun", func(ctx context.Context, u *UnitOfWork) error {
		var err error
		run, err = s.payrollRepo.FindPayRunForUpdate(ctx, u.Tx, u.CompanyID(), payRunID)
		if err != nil {
			return err
		}
		if run.CashedOut {
			return fmt.Errorf("%w: pay run %s is already cashed out", apperrors.ErrAlreadyPerformed, payRunID)
		}
		if run.Status != domain.PayRunApproved {
			return fmt.Errorf("%w: pay run must be approved before cash-out", apperrors.ErrInvalidTransition)
		}

		lines, err := s.salaryLines(ctx, u, run, domain.TitleSalariesPayable, domain.TitleCash, false)
		if err != nil {
			return err
		}
		if len(lines) > 0 && run.TransactionID != nil {
			if _, err := u.Post(ctx, domain.PostingRequest{
				Lines:       lines,
				Date:        run.PayDate,
				Description: fmt.Sprintf("Salaries paid on %s", run.PayDate.Format("2006-01-02")),
				Meta:        domain.PostingMeta{MovementType: domain.MovementSalaryPaid, TransactionID: *run.TransactionID},
			}); err != nil {
				return err
			}
		}

		run.CashedOut = true
		run.LastUpdatedAt = u.Now
		run.LastUpdatedBy = u.Actor.UserID
		return s.payrollRepo.UpdatePayRun(ctx, u.Tx, *run)
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Pay run cashed out", slog.String("payrun_id", payRunID))
	return run, nil
}

// DeletePayRun soft-deletes a run that was not cashed out, reversing salary earned if posted.
func (s *payrollService) DeletePayRun(ctx context.Context, actor domain.ActingUser, payRunID string) error {
	err := s.boundary.Run(ctx, actor, domain.PermPayrollManage, "delete_payrun", func(ctx context.Context, u *UnitOfWork) error {
		run, err := s.payrollRepo.FindPayRunForUpdate(ctx, u.Tx, u.CompanyID(), payRunID)
		if err != nil {
			return err
		}
		if run.CashedOut {
			return fmt.Errorf("%w: cashed out pay runs cannot be deleted", apperrors.ErrInvalidTransition)
		}
		if run.TransactionID != nil {
			if _, err := u.Reverse(ctx, *run.TransactionID); err != nil {
				return err
			}
		}
		run.IsDeleted = true
		for i := range run.Slips {
			run.Slips[i].IsDeleted = true
			for j := range run.Slips[i].Items {
				run.Slips[i].Items[j].IsDeleted = true
			}
		}
		run.LastUpdatedAt = u.Now
		run.LastUpdatedBy = u.Actor.UserID
		return s.payrollRepo.UpdatePayRun(ctx, u.Tx, *run)
	})
	if err != nil {
		return err
	}

	s.LogInfo(ctx, "Pay run deleted", slog.String("payrun_id", payRunID))
	return nil
}

// salaryLines builds the company-level transfer plus one pair per employee with positive
// net pay. earned selects Dr contra / Cr payable; otherwise the pair is mirrored.
func (s *payrollService) salaryLines(ctx context.Context, u *UnitOfWork, run *domain.PayRun, debitTitle, creditTitle string, earned bool) ([]domain.PostingLine, error) {
	total := run.TotalNetPay()
	if !total.IsPositive() {
		return nil, nil
	}

	titles := []string{debitTitle, creditTitle}
	employees := make(map[string]*domain.Party)
	for _, slip := range run.ActiveSlips() {
		employee, err := loadParty(ctx, s.companyRepo, u, slip.EmployeeID, domain.PartyEmployee)
		if err != nil {
			return nil, err
		}
		employees[slip.EmployeeID] = employee
		titles = append(titles, employee.SubAccountTitle(), employee.ContraAccountTitle())
	}
	accounts, err := u.RequireAccounts(ctx, titles...)
	if err != nil {
		return nil, err
	}

	lines := transferTitles(accounts, debitTitle, creditTitle, total)
	for _, slip := range run.ActiveSlips() {
		net := slip.NetPay()
		if !net.IsPositive() {
			continue
		}
		employee := employees[slip.EmployeeID]
		if earned {
			lines = append(lines, transferTitles(accounts, employee.ContraAccountTitle(), employee.SubAccountTitle(), net)...)
		} else {
			lines = append(lines, transferTitles(accounts, employee.SubAccountTitle(), employee.ContraAccountTitle(), net)...)
		}
	}
	return lines, nil
}
