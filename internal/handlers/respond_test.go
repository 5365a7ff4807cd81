package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := map[string]struct {
		err  error
		want int
	}{
		"validation":          {apperrors.ErrUnbalanced, http.StatusBadRequest},
		"insufficient stock":  {apperrors.ErrInsufficientStock, http.StatusBadRequest},
		"document owned":      {apperrors.ErrDocumentOwned, http.StatusBadRequest},
		"required accounts":   {apperrors.ErrRequiredAccounts, http.StatusNotFound},
		"forbidden":           {apperrors.ErrForbidden, http.StatusForbidden},
		"limit reached":       {apperrors.ErrLimitReached, http.StatusPaymentRequired},
		"duplicate":           {apperrors.ErrDuplicate, http.StatusConflict},
		"concurrency wrapped": {fmt.Errorf("posting: %w", apperrors.ErrConcurrency), http.StatusConflict},
		"app error code":      {apperrors.NewAppError(http.StatusTeapot, "odd", nil), http.StatusTeapot},
		"unknown":             {errors.New("boom"), http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusFor(tc.err))
		})
	}
}
