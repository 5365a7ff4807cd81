package accounting

import (
	"fmt"

	"github.com/SscSPs/bizledger_app/internal/apperrors"
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places amounts are stored with.
const AmountScale int32 = 4

// ValidateScale rejects an amount that would lose digits when stored.
func ValidateScale(field string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return apperrors.NewValidationError("%s %s has more than %d decimal places", field, amount, AmountScale)
	}
	return nil
}

// ValidatePostingLines checks the posting preconditions: at least two lines, strictly
// positive amounts at storage scale and debits equal to credits by exact decimal comparison.
func ValidatePostingLines(lines []domain.PostingLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: at least two lines are required, got %d", apperrors.ErrUnbalanced, len(lines))
	}

	var totals domain.Totals
	for i, line := range lines {
		if line.AccountID == "" {
			return apperrors.NewValidationError("line %d has no account", i)
		}
		if !line.Amount.IsPositive() {
			return apperrors.NewValidationError("line %d amount must be positive, got %s", i, line.Amount)
		}
		if err := ValidateScale(fmt.Sprintf("line %d amount", i), line.Amount); err != nil {
			return err
		}
		totals = totals.Add(line.Side, line.Amount)
	}

	if !totals.IsBalanced() {
		return fmt.Errorf("%w: debit %s != credit %s", apperrors.ErrUnbalanced, totals.Debit, totals.Credit)
	}
	return nil
}

// Transfer returns the two lines debiting one account and crediting another.
func Transfer(debitAccountID, creditAccountID string, amount decimal.Decimal) []domain.PostingLine {
	return []domain.PostingLine{
		{AccountID: debitAccountID, Side: domain.Debit, Amount: amount},
		{AccountID: creditAccountID, Side: domain.Credit, Amount: amount},
	}
}

// SignedTransfer posts a signed delta on a debit/credit pair with positive amounts:
// a negative delta swaps the sides, a zero delta yields no lines.
func SignedTransfer(debitAccountID, creditAccountID string, delta decimal.Decimal) []domain.PostingLine {
	switch delta.Sign() {
	case 0:
		return nil
	case -1:
		return Transfer(creditAccountID, debitAccountID, delta.Abs())
	default:
		return Transfer(debitAccountID, creditAccountID, delta)
	}
}

// Mirror returns lines with every side flipped.
func Mirror(lines []domain.JournalLine) []domain.PostingLine {
	out := make([]domain.PostingLine, len(lines))
	for i, l := range lines {
		out[i] = domain.PostingLine{AccountID: l.AccountID, Side: l.Side.Flip(), Amount: l.Amount}
	}
	return out
}
