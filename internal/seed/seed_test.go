package seed_test

import (
	"testing"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	"github.com/SscSPs/building_ledger/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultChart(t *testing.T) {
	chart, err := seed.DefaultChart()
	require.NoError(t, err)

	codes := make(map[string]seed.ChartAccount, len(chart))
	for _, a := range chart {
		codes[a.Code] = a
	}
	require.Contains(t, codes, "1100", "cash account used when processing transactions")
	assert.Equal(t, domain.Asset, codes["1100"].Type)
	assert.Equal(t, "1000", codes["1100"].Parent)
	assert.Equal(t, domain.Revenue, codes["4100"].Type)
}

func TestDefaultFallbacks(t *testing.T) {
	fallbacks, err := seed.DefaultFallbacks()
	require.NoError(t, err)

	lookup := func(d domain.Direction, c domain.Category) string {
		txn := domain.Transaction{Direction: d, Category: c}
		for _, f := range fallbacks {
			if f.Matches(txn) {
				return f.AccountCode
			}
		}
		return ""
	}

	assert.Equal(t, "4200", lookup(domain.DirectionIncome, domain.CategoryManagementFeeIncome))
	assert.Equal(t, "4100", lookup(domain.DirectionIncome, domain.CategoryRentalIncome))
	assert.Equal(t, "4300", lookup(domain.DirectionIncome, domain.CategoryOther))
	assert.Equal(t, "5100", lookup(domain.DirectionExpense, domain.CategorySecurity))
	assert.Equal(t, "5200", lookup(domain.DirectionExpense, domain.CategoryRepair))
	assert.Equal(t, "5300", lookup(domain.DirectionExpense, domain.CategoryTax))
	assert.Equal(t, "5500", lookup(domain.DirectionExpense, domain.CategoryOther))
	assert.Equal(t, "", lookup(domain.DirectionIncome, domain.CategoryRepair))
}

func TestParseFallbacks_RejectsIncompleteRows(t *testing.T) {
	_, err := seed.ParseFallbacks([]byte("fallbacks:\n  - direction: INCOME\n    account_code: \"4100\"\n"))
	assert.Error(t, err)

	_, err = seed.ParseFallbacks([]byte("fallbacks:\n  - direction: INCOME\n    colour: red\n"))
	assert.Error(t, err, "unknown fields are rejected")
}
