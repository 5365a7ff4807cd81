package utils

import (
	"testing"
	"time"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	actor := domain.ActingUser{
		UserID:      "user-1",
		CompanyID:   "company-1",
		Permissions: []domain.Permission{domain.PermLedgerRead, domain.PermPayrollManage},
	}

	token, err := GenerateJWT(actor, "secret", time.Hour, "bizledger")
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "bizledger", claims.Issuer)
	assert.Equal(t, actor, claims.ActingUser())
}

func TestParseJWT_Rejects(t *testing.T) {
	actor := domain.ActingUser{UserID: "user-1", CompanyID: "company-1"}

	token, err := GenerateJWT(actor, "secret", time.Hour, "bizledger")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(token, "other-secret")
	assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)

	expired, err := GenerateJWT(actor, "secret", -time.Minute, "bizledger")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(expired, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
