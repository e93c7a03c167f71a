package domain

import (
	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places money columns store.
const AmountScale int32 = 4

// FitsAmountScale reports whether amount survives storage without rounding.
func FitsAmountScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(AmountScale))
}

// Rule names used in validation issues.
const (
	RuleMinLines    = "min_lines"
	RuleLineSides   = "line_sides"
	RuleNegative    = "negative_amount"
	RuleLineOrder   = "line_order"
	RuleBalance     = "balance"
	RuleTotalAmount = "total_amount"
	RuleScale       = "amount_scale"
)

// ValidateEntry checks every double-entry invariant and returns all violations at once.
// It returns nil when the entry is sound.
func ValidateEntry(e *JournalEntry) *apperrors.ValidationError {
	subject := "journal entry"
	if e.EntryNumber != "" {
		subject += " " + e.EntryNumber
	}
	vErr := apperrors.NewValidationError(subject)

	if len(e.Lines) == 0 {
		vErr.Add(RuleMinLines, 0, "entry has no lines")
	} else if len(e.Lines) < 2 {
		vErr.Add(RuleMinLines, 0, "entry needs at least 2 lines, has %d", len(e.Lines))
	}

	seenOrders := make(map[int]struct{}, len(e.Lines))
	for _, l := range e.Lines {
		if _, dup := seenOrders[l.LineOrder]; dup {
			vErr.Add(RuleLineOrder, l.LineOrder, "line order is used more than once")
		}
		seenOrders[l.LineOrder] = struct{}{}

		if l.DebitAmount.IsNegative() || l.CreditAmount.IsNegative() {
			vErr.Add(RuleNegative, l.LineOrder, "amounts must not be negative (debit %s, credit %s)",
				l.DebitAmount.StringFixed(2), l.CreditAmount.StringFixed(2))
			continue
		}
		for _, amount := range []decimal.Decimal{l.DebitAmount, l.CreditAmount} {
			if !FitsAmountScale(amount) {
				vErr.Add(RuleScale, l.LineOrder, "amount %s has more than %d decimal places", amount.String(), AmountScale)
			}
		}
		debit, credit := l.DebitAmount.IsPositive(), l.CreditAmount.IsPositive()
		switch {
		case debit && credit:
			vErr.Add(RuleLineSides, l.LineOrder, "line has both a debit and a credit")
		case !debit && !credit:
			vErr.Add(RuleLineSides, l.LineOrder, "line has neither a debit nor a credit")
		}
	}

	totalDebit, totalCredit := e.TotalDebit(), e.TotalCredit()
	if !totalDebit.Equal(totalCredit) {
		vErr.Add(RuleBalance, 0, "debits (%s) do not equal credits (%s)",
			totalDebit.StringFixed(2), totalCredit.StringFixed(2))
	}
	if !e.TotalAmount.Equal(totalDebit) {
		vErr.Add(RuleTotalAmount, 0, "total amount (%s) does not equal debit sum (%s)",
			e.TotalAmount.StringFixed(2), totalDebit.StringFixed(2))
	}

	if vErr.HasIssues() {
		return vErr
	}
	return nil
}
