package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
)

// usageService exposes the usage guard's view of a company.
type usageService struct {
	BaseService
	boundary *postingBoundary
}

func newUsageService(boundary *postingBoundary) *usageService {
	return &usageService{boundary: boundary}
}

var _ portssvc.UsageSvc = (*usageService)(nil)

func (s *usageService) GetUsage(ctx context.Context, actor domain.ActingUser) (*domain.UsageReport, error) {
	if err := s.Authorize(ctx, actor, domain.PermLedgerRead); err != nil {
		return nil, err
	}
	report, err := s.boundary.guard.Usage(ctx, nil, actor.CompanyID, s.boundary.clock().UTC())
	if err != nil {
		s.LogError(ctx, err, "Failed to load usage")
		return nil, err
	}
	return report, nil
}

// RecordBackup counts a completed backup against the plan's monthly limit.
func (s *usageService) RecordBackup(ctx context.Context, actor domain.ActingUser) (*domain.UsageReport, error) {
	var report *domain.UsageReport
	err := s.boundary.Run(ctx, actor, domain.PermCompanyAdmin, "record_backup", func(ctx context.Context, u *UnitOfWork) error {
		if err := u.guard.AssertCanCreateBackup(ctx, u.Tx, u.CompanyID(), u.Now); err != nil {
			return err
		}
		if err := u.guard.RecordBackup(ctx, u.Tx, u.CompanyID(), u.Now); err != nil {
			return err
		}
		var err error
		report, err = u.guard.Usage(ctx, u.Tx, u.CompanyID(), u.Now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Backup recorded", slog.Int64("backups_this_month", report.Counters.BackupCount))
	return report, nil
}
