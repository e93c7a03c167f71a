package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(order int, account string, debit, credit int64) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		AccountID:    account,
		DebitAmount:  decimal.NewFromInt(debit),
		CreditAmount: decimal.NewFromInt(credit),
		LineOrder:    order,
	}
}

func rulesOf(vErr *apperrors.ValidationError) []string {
	rules := make([]string, 0, len(vErr.Issues))
	for _, issue := range vErr.Issues {
		rules = append(rules, issue.Rule)
	}
	return rules
}

func TestValidateEntry(t *testing.T) {
	tests := []struct {
		name      string
		lines     []domain.JournalEntryLine
		total     int64
		wantRules []string
	}{
		{
			name:  "balanced",
			lines: []domain.JournalEntryLine{line(1, "cash", 100, 0), line(2, "revenue", 0, 100)},
			total: 100,
		},
		{
			name:      "imbalance 100 vs 90",
			lines:     []domain.JournalEntryLine{line(1, "cash", 100, 0), line(2, "revenue", 0, 90)},
			total:     100,
			wantRules: []string{domain.RuleBalance},
		},
		{
			name:      "single line",
			lines:     []domain.JournalEntryLine{line(1, "cash", 100, 0)},
			total:     100,
			wantRules: []string{domain.RuleMinLines, domain.RuleBalance},
		},
		{
			name:      "no lines",
			total:     0,
			wantRules: []string{domain.RuleMinLines},
		},
		{
			name:      "both sides on one line",
			lines:     []domain.JournalEntryLine{line(1, "cash", 100, 100), line(2, "revenue", 0, 0)},
			total:     100,
			wantRules: []string{domain.RuleLineSides, domain.RuleLineSides},
		},
		{
			name:      "negative amount",
			lines:     []domain.JournalEntryLine{line(1, "cash", -50, 0), line(2, "revenue", 0, -50)},
			total:     -50,
			wantRules: []string{domain.RuleNegative, domain.RuleNegative},
		},
		{
			name:      "total does not match debits",
			lines:     []domain.JournalEntryLine{line(1, "cash", 100, 0), line(2, "revenue", 0, 100)},
			total:     120,
			wantRules: []string{domain.RuleTotalAmount},
		},
		{
			name:      "duplicate line order",
			lines:     []domain.JournalEntryLine{line(1, "cash", 100, 0), line(1, "revenue", 0, 100)},
			total:     100,
			wantRules: []string{domain.RuleLineOrder},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &domain.JournalEntry{
				EntryNumber: "JE2025030001",
				Lines:       tt.lines,
				TotalAmount: decimal.NewFromInt(tt.total),
			}
			vErr := domain.ValidateEntry(entry)
			if len(tt.wantRules) == 0 {
				assert.Nil(t, vErr)
				return
			}
			require.NotNil(t, vErr)
			assert.Equal(t, tt.wantRules, rulesOf(vErr))
			assert.ErrorIs(t, vErr, apperrors.ErrValidation)
		})
	}
}

func TestValidateEntry_ImbalanceMessageNamesBothSums(t *testing.T) {
	entry := &domain.JournalEntry{
		Lines:       []domain.JournalEntryLine{line(1, "cash", 100, 0), line(2, "revenue", 0, 90)},
		TotalAmount: decimal.NewFromInt(100),
	}
	vErr := domain.ValidateEntry(entry)
	require.NotNil(t, vErr)
	assert.Contains(t, vErr.Error(), "debits (100.00) do not equal credits (90.00)")
}

func TestValidateEntry_RejectsAmountsFinerThanStorage(t *testing.T) {
	entry := &domain.JournalEntry{
		Lines: []domain.JournalEntryLine{
			{AccountID: "cash", DebitAmount: decimal.RequireFromString("0.00005"), LineOrder: 1},
			{AccountID: "cash", DebitAmount: decimal.RequireFromString("0.00005"), LineOrder: 2},
			{AccountID: "revenue", CreditAmount: decimal.RequireFromString("0.0001"), LineOrder: 3},
		},
		TotalAmount: decimal.RequireFromString("0.0001"),
	}
	// balanced as given, but both debits would round up to 0.0001 when stored
	vErr := domain.ValidateEntry(entry)
	require.NotNil(t, vErr)
	assert.Equal(t, []string{domain.RuleScale, domain.RuleScale}, rulesOf(vErr))
	assert.Equal(t, 2, vErr.Issues[1].LineOrder)

	entry.Lines[0].DebitAmount = decimal.RequireFromString("12.3456")
	entry.Lines[1].DebitAmount = decimal.RequireFromString("0.0001")
	entry.Lines[2].CreditAmount = decimal.RequireFromString("12.3457")
	entry.TotalAmount = entry.TotalDebit()
	assert.Nil(t, domain.ValidateEntry(entry), "four places is fine")
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]domain.JournalStatus]bool{
		{domain.Draft, domain.Pending}:    true,
		{domain.Pending, domain.Approved}: true,
		{domain.Pending, domain.Draft}:    true,
		{domain.Approved, domain.Posted}:  true,
		{domain.Posted, domain.Reversed}:  true,
	}
	all := []domain.JournalStatus{domain.Draft, domain.Pending, domain.Approved, domain.Posted, domain.Reversed}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]domain.JournalStatus{from, to}], domain.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestJournalEntry_FullLifecycle(t *testing.T) {
	now := time.Now()
	entry := &domain.JournalEntry{EntryID: "e-1", Status: domain.Draft}

	require.NoError(t, entry.Submit("clerk", now))
	require.NoError(t, entry.RevertToDraft("clerk", now))
	require.NoError(t, entry.Submit("clerk", now))

	err := entry.Post("clerk", now)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState, "posting must not skip approval")

	require.NoError(t, entry.Approve("manager", now))
	assert.Equal(t, "manager", *entry.ApprovedBy)
	assert.ErrorIs(t, entry.RevertToDraft("clerk", now), apperrors.ErrInvalidState)

	require.NoError(t, entry.Post("manager", now))
	require.NotNil(t, entry.PostedAt)

	require.NoError(t, entry.MarkReversed("e-2", "wrong account", "manager", now))
	assert.Equal(t, domain.Reversed, entry.Status)
	assert.Equal(t, "e-2", *entry.ReversalEntryID)
	assert.ErrorIs(t, entry.MarkReversed("e-3", "again", "manager", now), apperrors.ErrInvalidState)
}

func TestSwappedLines(t *testing.T) {
	original := []domain.JournalEntryLine{line(1, "cash", 150000, 0), line(2, "4100", 0, 150000)}
	swapped := domain.SwappedLines(original)

	require.Len(t, swapped, 2)
	for i := range original {
		assert.Equal(t, original[i].AccountID, swapped[i].AccountID)
		assert.Equal(t, original[i].LineOrder, swapped[i].LineOrder)
		assert.True(t, original[i].DebitAmount.Equal(swapped[i].CreditAmount))
		assert.True(t, original[i].CreditAmount.Equal(swapped[i].DebitAmount))
	}
}
