package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestSpecificErrorsMatchTheirCategory(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category error
	}{
		{"unbalanced", apperrors.ErrUnbalanced, apperrors.ErrValidation},
		{"transition", apperrors.ErrInvalidTransition, apperrors.ErrValidation},
		{"already performed", apperrors.ErrAlreadyPerformed, apperrors.ErrValidation},
		{"required accounts", apperrors.ErrRequiredAccounts, apperrors.ErrNotFound},
		{"expired", apperrors.ErrSubscriptionExpired, apperrors.ErrSubscription},
		{"limit", apperrors.ErrLimitReached, apperrors.ErrSubscription},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("service layer: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.err))
			assert.True(t, errors.Is(wrapped, tt.category))
		})
	}
}

func TestAppError(t *testing.T) {
	err := apperrors.NewAppError(500, "failed to begin transaction", nil)
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.Equal(t, "failed to begin transaction: internal error", err.Error())

	cause := apperrors.NewNotFoundError("product")
	wrapped := apperrors.NewAppError(404, "lookup failed", cause)
	assert.ErrorIs(t, wrapped, apperrors.ErrNotFound)
	assert.Contains(t, wrapped.Error(), "product")
}
