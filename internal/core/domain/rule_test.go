package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func stringPtr(s string) *string { return &s }

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func categoryPtr(c domain.Category) *domain.Category { return &c }

func TestCompiledRule_Matches(t *testing.T) {
	base := domain.Transaction{
		Direction:    domain.DirectionExpense,
		Category:     domain.CategoryCleaning,
		Amount:       decimal.NewFromInt(330000),
		Counterparty: stringPtr("Shiny Clean Co., Ltd."),
		Description:  "monthly lobby cleaning",
	}

	tests := []struct {
		name string
		rule domain.TransactionRule
		txn  func() domain.Transaction
		want bool
	}{
		{
			name: "direction only",
			rule: domain.TransactionRule{Direction: domain.DirectionExpense, IsActive: true},
			want: true,
		},
		{
			name: "inactive never matches",
			rule: domain.TransactionRule{Direction: domain.DirectionExpense, IsActive: false},
			want: false,
		},
		{
			name: "wrong direction",
			rule: domain.TransactionRule{Direction: domain.DirectionIncome, IsActive: true},
			want: false,
		},
		{
			name: "category constraint",
			rule: domain.TransactionRule{Direction: domain.DirectionExpense, Category: categoryPtr(domain.CategorySecurity), IsActive: true},
			want: false,
		},
		{
			name: "counterparty regex is case insensitive",
			rule: domain.TransactionRule{Direction: domain.DirectionExpense, CounterpartyPattern: stringPtr("shiny\\s+clean"), IsActive: true},
			want: true,
		},
		{
			name: "counterparty pattern ignored when transaction has none",
			rule: domain.TransactionRule{Direction: domain.DirectionExpense, CounterpartyPattern: stringPtr("acme"), IsActive: true},
			txn: func() domain.Transaction {
				txn := base
				txn.Counterparty = nil
				return txn
			},
			want: true,
		},
		{
			name: "description pattern",
			rule: domain.TransactionRule{Direction: domain.DirectionExpense, DescriptionPattern: stringPtr("elevator"), IsActive: true},
			want: false,
		},
		{
			name: "amount inside range",
			rule: domain.TransactionRule{
				Direction: domain.DirectionExpense,
				AmountMin: decimalPtr(decimal.NewFromInt(100000)),
				AmountMax: decimalPtr(decimal.NewFromInt(500000)),
				IsActive:  true,
			},
			want: true,
		},
		{
			name: "amount above max",
			rule: domain.TransactionRule{
				Direction: domain.DirectionExpense,
				AmountMax: decimalPtr(decimal.NewFromInt(300000)),
				IsActive:  true,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := base
			if tt.txn != nil {
				txn = tt.txn()
			}
			assert.Equal(t, tt.want, domain.CompileRule(tt.rule).Matches(txn))
		})
	}
}

func TestCompiledRule_InvalidPatternUsesSubstring(t *testing.T) {
	rule := domain.TransactionRule{
		Direction:           domain.DirectionExpense,
		CounterpartyPattern: stringPtr("co., ltd.("),
		IsActive:            true,
	}
	assert.False(t, domain.ValidPattern(*rule.CounterpartyPattern))

	txn := domain.Transaction{Direction: domain.DirectionExpense, Counterparty: stringPtr("Shiny CO., LTD.(Seoul)")}
	assert.True(t, domain.CompileRule(rule).Matches(txn))
}

func TestTransactionRule_OrderingAndSuccessRate(t *testing.T) {
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := domain.TransactionRule{Priority: 100, AuditFields: domain.AuditFields{CreatedAt: older}}
	b := domain.TransactionRule{Priority: 100, AuditFields: domain.AuditFields{CreatedAt: older.Add(time.Hour)}}
	c := domain.TransactionRule{Priority: 50, AuditFields: domain.AuditFields{CreatedAt: older.Add(2 * time.Hour)}}

	assert.True(t, a.Less(b))
	assert.True(t, c.Less(a))
	assert.False(t, b.Less(a))

	assert.True(t, decimal.Zero.Equal(a.SuccessRate()))
	a.UsageCount, a.SuccessCount = 4, 3
	assert.Equal(t, "0.75", a.SuccessRate().String())
}

func TestFallbackRule_Matches(t *testing.T) {
	f := domain.FallbackRule{
		Direction:   domain.DirectionExpense,
		Categories:  []domain.Category{domain.CategoryUtility, domain.CategoryTax},
		AccountCode: "5300",
	}
	assert.True(t, f.Matches(domain.Transaction{Direction: domain.DirectionExpense, Category: domain.CategoryTax}))
	assert.False(t, f.Matches(domain.Transaction{Direction: domain.DirectionIncome, Category: domain.CategoryTax}))
	assert.False(t, f.Matches(domain.Transaction{Direction: domain.DirectionExpense, Category: domain.CategoryRepair}))
}

func TestLearnedRuleName(t *testing.T) {
	assert.Equal(t, "auto: Han River Power", domain.LearnedRuleName(domain.Transaction{Counterparty: stringPtr(" Han River Power ")}))
	assert.Equal(t, "auto: UTILITY", domain.LearnedRuleName(domain.Transaction{Category: domain.CategoryUtility}))
}
