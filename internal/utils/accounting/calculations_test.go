package accounting

import (
	"testing"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestValidatePostingLines(t *testing.T) {
	tests := []struct {
		name    string
		lines   []domain.PostingLine
		wantErr error
	}{
		{
			name:  "balanced two lines",
			lines: Transfer("a", "b", amt("10.50")),
		},
		{
			name: "balanced multi line",
			lines: []domain.PostingLine{
				{AccountID: "a", Side: domain.Debit, Amount: amt("60")},
				{AccountID: "b", Side: domain.Credit, Amount: amt("55")},
				{AccountID: "c", Side: domain.Credit, Amount: amt("5")},
			},
		},
		{
			name:    "single line",
			lines:   []domain.PostingLine{{AccountID: "a", Side: domain.Debit, Amount: amt("1")}},
			wantErr: apperrors.ErrUnbalanced,
		},
		{
			name:    "empty",
			wantErr: apperrors.ErrUnbalanced,
		},
		{
			name: "unbalanced 100 vs 90",
			lines: []domain.PostingLine{
				{AccountID: "a", Side: domain.Debit, Amount: amt("100")},
				{AccountID: "b", Side: domain.Credit, Amount: amt("90")},
			},
			wantErr: apperrors.ErrUnbalanced,
		},
		{
			name: "zero amount",
			lines: []domain.PostingLine{
				{AccountID: "a", Side: domain.Debit, Amount: amt("0")},
				{AccountID: "b", Side: domain.Credit, Amount: amt("0")},
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "negative amount",
			lines: []domain.PostingLine{
				{AccountID: "a", Side: domain.Debit, Amount: amt("-5")},
				{AccountID: "b", Side: domain.Credit, Amount: amt("-5")},
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "balanced only beyond storage scale",
			lines: []domain.PostingLine{
				{AccountID: "a", Side: domain.Debit, Amount: amt("0.00005")},
				{AccountID: "b", Side: domain.Debit, Amount: amt("0.00005")},
				{AccountID: "c", Side: domain.Credit, Amount: amt("0.0001")},
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:  "trailing zeros beyond scale",
			lines: Transfer("a", "b", amt("1.250000")),
		},
		{
			name: "missing account",
			lines: []domain.PostingLine{
				{Side: domain.Debit, Amount: amt("5")},
				{AccountID: "b", Side: domain.Credit, Amount: amt("5")},
			},
			wantErr: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePostingLines(tt.lines)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestSignedTransfer(t *testing.T) {
	assert.Nil(t, SignedTransfer("stock", "adj", decimal.Zero))

	up := SignedTransfer("stock", "adj", amt("15"))
	require.Len(t, up, 2)
	assert.Equal(t, domain.PostingLine{AccountID: "stock", Side: domain.Debit, Amount: amt("15")}, up[0])
	assert.Equal(t, domain.PostingLine{AccountID: "adj", Side: domain.Credit, Amount: amt("15")}, up[1])

	down := SignedTransfer("stock", "adj", amt("-15"))
	require.Len(t, down, 2)
	assert.Equal(t, "adj", down[0].AccountID)
	assert.Equal(t, domain.Debit, down[0].Side)
	assert.True(t, down[0].Amount.Equal(amt("15")))
	assert.Equal(t, "stock", down[1].AccountID)
	assert.Equal(t, domain.Credit, down[1].Side)
	assert.NoError(t, ValidatePostingLines(down))
}

func TestMirror(t *testing.T) {
	lines := []domain.JournalLine{
		{AccountID: "a", Side: domain.Debit, Amount: amt("3")},
		{AccountID: "b", Side: domain.Credit, Amount: amt("3")},
	}
	mirrored := Mirror(lines)
	require.Len(t, mirrored, 2)
	assert.Equal(t, domain.Credit, mirrored[0].Side)
	assert.Equal(t, domain.Debit, mirrored[1].Side)
	assert.NoError(t, ValidatePostingLines(mirrored))
}

func TestValidateScale(t *testing.T) {
	assert.NoError(t, ValidateScale("price", amt("12.3456")))
	assert.NoError(t, ValidateScale("price", amt("7")))
	assert.NoError(t, ValidateScale("price", amt("-0.0001")))
	assert.ErrorIs(t, ValidateScale("price", amt("12.34561")), apperrors.ErrValidation)
	assert.ErrorIs(t, ValidateScale("price", amt("0.00005")), apperrors.ErrValidation)
}
