package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/SscSPs/bizledger_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		// Return a default logger if not found in context
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// Authorize checks that the acting user belongs to a company and holds the permission.
func (s *BaseService) Authorize(ctx context.Context, actor domain.ActingUser, perm domain.Permission) error {
	if actor.UserID == "" || actor.CompanyID == "" {
		return fmt.Errorf("%w: acting user has no company scope", apperrors.ErrForbidden)
	}
	if !actor.Can(perm) {
		s.GetLogger(ctx).Warn("Permission denied",
			slog.String("user_id", actor.UserID),
			slog.String("company_id", actor.CompanyID),
			slog.String("permission", string(perm)))
		return fmt.Errorf("%w: %s required", apperrors.ErrForbidden, perm)
	}
	return nil
}

// logFailure logs unexpected errors at error level and expected business outcomes at debug level.
func (s *BaseService) logFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	if isBusinessError(err) {
		s.LogDebug(ctx, msg, append([]any{slog.String("error", err.Error())}, keyvals...)...)
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}

func isBusinessError(err error) bool {
	return errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrForbidden) ||
		errors.Is(err, apperrors.ErrSubscription) ||
		errors.Is(err, apperrors.ErrDuplicate)
}
