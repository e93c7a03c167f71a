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

func TestTransaction_Lifecycle(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  domain.TransactionStatus
		act     func(txn *domain.Transaction) error
		want    domain.TransactionStatus
		wantErr bool
	}{
		{
			name:   "approve pending",
			status: domain.TransactionPending,
			act: func(txn *domain.Transaction) error {
				return txn.Approve("acc-4100", "approver", nil, now)
			},
			want: domain.TransactionApproved,
		},
		{
			name:   "reject pending",
			status: domain.TransactionPending,
			act: func(txn *domain.Transaction) error {
				return txn.Reject("duplicate bank line", "approver", now)
			},
			want: domain.TransactionRejected,
		},
		{
			name:   "approve rejected fails",
			status: domain.TransactionRejected,
			act: func(txn *domain.Transaction) error {
				return txn.Approve("acc-4100", "approver", nil, now)
			},
			want:    domain.TransactionRejected,
			wantErr: true,
		},
		{
			name:   "reject approved fails",
			status: domain.TransactionApproved,
			act: func(txn *domain.Transaction) error {
				return txn.Reject("late", "approver", now)
			},
			want:    domain.TransactionApproved,
			wantErr: true,
		},
		{
			name:   "process pending fails",
			status: domain.TransactionPending,
			act: func(txn *domain.Transaction) error {
				return txn.MarkProcessed("entry-1", "approver", now)
			},
			want:    domain.TransactionPending,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := &domain.Transaction{
				TransactionID: "txn-1",
				Amount:        decimal.NewFromInt(150000),
				Status:        tt.status,
			}
			err := tt.act(txn)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidState)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, txn.Status)
		})
	}
}

func TestTransaction_CanProcessRequiresApprovedAccount(t *testing.T) {
	txn := &domain.Transaction{TransactionID: "txn-2", Status: domain.TransactionApproved}
	assert.ErrorIs(t, txn.CanProcess(), apperrors.ErrInvalidState)

	account := "acc-5100"
	txn.ApprovedAccountID = &account
	require.NoError(t, txn.CanProcess())

	require.NoError(t, txn.MarkProcessed("entry-9", "clerk", time.Now()))
	assert.Equal(t, domain.TransactionProcessed, txn.Status)
	assert.Equal(t, "entry-9", *txn.JournalEntryID)
	assert.ErrorIs(t, txn.CanProcess(), apperrors.ErrInvalidState, "processed is terminal")
}

func TestTransaction_ApplySuggestion(t *testing.T) {
	txn := &domain.Transaction{}
	txn.ApplySuggestion(nil)
	assert.Nil(t, txn.SuggestedAccountID)

	ruleID := "rule-1"
	txn.ApplySuggestion(&domain.ClassificationSuggestion{
		AccountID:  "acc-4200",
		Confidence: decimal.RequireFromString("0.80"),
		RuleID:     &ruleID,
	})
	assert.True(t, txn.SuggestionMatches("acc-4200"))
	assert.False(t, txn.SuggestionMatches("acc-4100"))
	assert.Equal(t, "0.8", txn.ConfidenceScore.String())
	assert.Equal(t, &ruleID, txn.SuggestedRuleID)
}

func TestTransaction_ApproveRecordsCorrection(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	suggested := "acc-5100"

	accepted := &domain.Transaction{Status: domain.TransactionPending, SuggestedAccountID: &suggested}
	require.NoError(t, accepted.Approve("acc-5100", "approver", nil, now))
	assert.False(t, accepted.Corrected)

	overridden := &domain.Transaction{Status: domain.TransactionPending, SuggestedAccountID: &suggested}
	require.NoError(t, overridden.Approve("acc-5500", "approver", nil, now))
	assert.True(t, overridden.Corrected)

	unclassified := &domain.Transaction{Status: domain.TransactionPending}
	require.NoError(t, unclassified.Approve("acc-5500", "approver", nil, now))
	assert.True(t, unclassified.Corrected, "no suggestion counts as a correction")
}
