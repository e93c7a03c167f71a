package accounting

import (
	"fmt"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Balance applies the normal-balance convention of an account type to raw sums.
//
//	ASSET, EXPENSE:             debit - credit
//	LIABILITY, EQUITY, REVENUE: credit - debit
func Balance(accountType domain.AccountType, debit, credit decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return debit.Sub(credit), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return credit.Sub(debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// ApplyBalances fills Balance on every row and returns the debit and credit totals.
func ApplyBalances(rows []domain.TrialBalanceRow) (decimal.Decimal, decimal.Decimal, error) {
	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for i := range rows {
		balance, err := Balance(rows[i].AccountType, rows[i].TotalDebit, rows[i].TotalCredit)
		if err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("account %s: %w", rows[i].AccountCode, err)
		}
		rows[i].Balance = balance
		totalDebit = totalDebit.Add(rows[i].TotalDebit)
		totalCredit = totalCredit.Add(rows[i].TotalCredit)
	}
	return totalDebit, totalCredit, nil
}
