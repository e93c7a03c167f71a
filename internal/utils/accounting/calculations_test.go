package accounting_test

import (
	"testing"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	"github.com/SscSPs/building_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalance(t *testing.T) {
	debit, credit := decimal.NewFromInt(300), decimal.NewFromInt(100)
	tests := []struct {
		accountType domain.AccountType
		want        string
	}{
		{domain.Asset, "200"},
		{domain.Expense, "200"},
		{domain.Liability, "-200"},
		{domain.Equity, "-200"},
		{domain.Revenue, "-200"},
	}
	for _, tt := range tests {
		t.Run(string(tt.accountType), func(t *testing.T) {
			got, err := accounting.Balance(tt.accountType, debit, credit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	_, err := accounting.Balance("INCOME", debit, credit)
	assert.Error(t, err)
}

func TestApplyBalances(t *testing.T) {
	rows := []domain.TrialBalanceRow{
		{AccountCode: "1100", AccountType: domain.Asset, TotalDebit: decimal.NewFromInt(150000), TotalCredit: decimal.Zero},
		{AccountCode: "4100", AccountType: domain.Revenue, TotalDebit: decimal.Zero, TotalCredit: decimal.NewFromInt(150000)},
	}
	debit, credit, err := accounting.ApplyBalances(rows)
	require.NoError(t, err)
	assert.True(t, debit.Equal(credit))
	assert.Equal(t, "150000", rows[0].Balance.String())
	assert.Equal(t, "150000", rows[1].Balance.String())
}
