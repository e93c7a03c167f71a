package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/building_ledger/internal/core/ports/services"
	"github.com/SscSPs/building_ledger/internal/core/services"
	"github.com/SscSPs/building_ledger/internal/handlers"
	"github.com/SscSPs/building_ledger/internal/platform/config"
	"github.com/SscSPs/building_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryContainer(t *testing.T) *portssvc.ServiceContainer {
	t.Helper()
	cfg := &config.Config{CashAccountCode: "1100", LearningThreshold: 3}
	container, err := services.NewServiceContainer(cfg, memory.NewRepositoryProvider(memory.NewStore()))
	require.NoError(t, err)
	return container
}

func execute(t *testing.T, container *portssvc.ServiceContainer, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "ledger", SilenceUsage: true, SilenceErrors: true}
	handlers.RegisterCommands(root, container)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands_SeedThenList(t *testing.T) {
	container := newMemoryContainer(t)

	out, err := execute(t, container, "accounts", "seed", "--tenant", "t1")
	require.NoError(t, err)
	assert.NotContains(t, out, "created 0 accounts")

	out, err = execute(t, container, "accounts", "seed", "--tenant", "t1")
	require.NoError(t, err)
	assert.Contains(t, out, "created 0 accounts", "seeding again skips existing codes")

	out, err = execute(t, container, "accounts", "list", "--tenant", "t1", "--type", "revenue", "-o", "json")
	require.NoError(t, err)
	var revenue []domain.Account
	require.NoError(t, json.Unmarshal([]byte(out), &revenue))
	require.NotEmpty(t, revenue)
	for _, a := range revenue {
		assert.Equal(t, domain.Revenue, a.AccountType)
		assert.True(t, strings.HasPrefix(a.Code, "4"), a.Code)
	}

	out, err = execute(t, container, "accounts", "list", "--tenant", "t2", "-o", "json")
	require.NoError(t, err)
	assert.NotContains(t, out, "4100", "tenants do not see each other's charts")
}

func TestCommands_PeriodLifecycle(t *testing.T) {
	container := newMemoryContainer(t)

	out, err := execute(t, container, "periods", "open", "2025-03", "--tenant", "t1")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-03-01")
	assert.Contains(t, out, "2025-03-31")

	out, err = execute(t, container, "periods", "check", "2025-03", "--tenant", "t1")
	require.NoError(t, err)
	assert.Contains(t, out, "ready to close")

	_, err = execute(t, container, "periods", "lock", "2025-03", "--tenant", "t1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState, "an open period cannot be locked")

	_, err = execute(t, container, "periods", "close", "2025-03", "--tenant", "t1")
	require.NoError(t, err)
	out, err = execute(t, container, "periods", "lock", "2025-03", "--tenant", "t1")
	require.NoError(t, err)
	assert.Contains(t, out, string(domain.PeriodLocked))
}

func TestCommands_EmptyLedger(t *testing.T) {
	container := newMemoryContainer(t)

	out, err := execute(t, container, "report", "trial-balance", "--tenant", "t1", "--from", "2025-03-01", "--to", "2025-03-31", "-o", "json")
	require.NoError(t, err)
	var tb domain.TrialBalance
	require.NoError(t, json.Unmarshal([]byte(out), &tb))
	assert.True(t, tb.IsBalanced)
	assert.Empty(t, tb.Rows)

	_, err = execute(t, container, "journal", "list", "--tenant", "t1", "--status", "SETTLED")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = execute(t, container, "journal", "show", "00000000-0000-0000-0000-000000000000", "--tenant", "t1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func accountIDs(t *testing.T, container *portssvc.ServiceContainer, tenant string) map[string]string {
	t.Helper()
	out, err := execute(t, container, "accounts", "list", "--tenant", tenant, "-o", "json")
	require.NoError(t, err)
	var accounts []domain.Account
	require.NoError(t, json.Unmarshal([]byte(out), &accounts))
	ids := make(map[string]string, len(accounts))
	for _, a := range accounts {
		ids[a.Code] = a.AccountID
	}
	return ids
}

func TestCommands_TransactionToPostedEntry(t *testing.T) {
	container := newMemoryContainer(t)
	_, err := execute(t, container, "accounts", "seed", "--tenant", "t1")
	require.NoError(t, err)
	ids := accountIDs(t, container, "t1")

	out, err := execute(t, container, "transactions", "create", "--tenant", "t1", "-o", "json",
		"--date", "2025-03-05", "--direction", "income", "--category", "rental_income", "--amount", "1500", "--counterparty", "Unit 4B")
	require.NoError(t, err)
	var txn domain.Transaction
	require.NoError(t, json.Unmarshal([]byte(out), &txn))
	assert.Equal(t, domain.TransactionPending, txn.Status)
	require.NotNil(t, txn.SuggestedAccountID)
	assert.Equal(t, ids["4100"], *txn.SuggestedAccountID)

	_, err = execute(t, container, "transactions", "process", txn.TransactionID, "--tenant", "t1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState, "pending transactions are not processed")

	out, err = execute(t, container, "transactions", "approve", txn.TransactionID, "--tenant", "t1", "--account", ids["4100"])
	require.NoError(t, err)
	assert.Contains(t, out, string(domain.TransactionApproved))

	out, err = execute(t, container, "transactions", "process", txn.TransactionID, "--tenant", "t1", "-o", "json")
	require.NoError(t, err)
	var entry domain.JournalEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entry))
	assert.Equal(t, domain.Posted, entry.Status)
	assert.Equal(t, "JE2025030001", entry.EntryNumber)

	out, err = execute(t, container, "transactions", "list", "--tenant", "t1", "--status", "processed")
	require.NoError(t, err)
	assert.Contains(t, out, txn.TransactionID)

	_, err = execute(t, container, "transactions", "create", "--tenant", "t1",
		"--date", "2025-03-05", "--direction", "EXPENSE", "--category", "UTILITY", "--amount", "lots")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCommands_JournalLifecycle(t *testing.T) {
	container := newMemoryContainer(t)
	_, err := execute(t, container, "accounts", "seed", "--tenant", "t1")
	require.NoError(t, err)
	ids := accountIDs(t, container, "t1")

	_, err = execute(t, container, "journal", "create", "--tenant", "t1",
		"--date", "2025-03-10", "--description", "unbalanced",
		"--debit", ids["1100"]+"=100", "--credit", ids["4100"]+"=90")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = execute(t, container, "journal", "create", "--tenant", "t1",
		"--date", "2025-03-10", "--description", "no amount", "--debit", ids["1100"])
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	out, err := execute(t, container, "journal", "create", "--tenant", "t1", "-o", "json",
		"--date", "2025-03-10", "--description", "parking fees",
		"--debit", ids["1100"]+"=250", "--credit", ids["4300"]+"=250")
	require.NoError(t, err)
	var entry domain.JournalEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entry))
	assert.Equal(t, domain.Draft, entry.Status)
	require.Len(t, entry.Lines, 2)
	assert.True(t, entry.Lines[0].IsDebit())
	assert.Equal(t, 2, entry.Lines[1].LineOrder)

	_, err = execute(t, container, "journal", "post", entry.EntryID, "--tenant", "t1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState, "drafts cannot be posted")

	for _, step := range []string{"submit", "revert", "submit", "approve", "post"} {
		_, err = execute(t, container, "journal", step, entry.EntryID, "--tenant", "t1", "--actor", "manager-1")
		require.NoError(t, err, step)
	}

	out, err = execute(t, container, "journal", "show", entry.EntryID, "--tenant", "t1")
	require.NoError(t, err)
	assert.Contains(t, out, string(domain.Posted))

	out, err = execute(t, container, "report", "trial-balance", "--tenant", "t1", "--from", "2025-03-01", "--to", "2025-03-31", "-o", "json")
	require.NoError(t, err)
	var tb domain.TrialBalance
	require.NoError(t, json.Unmarshal([]byte(out), &tb))
	assert.True(t, tb.IsBalanced)
	assert.True(t, tb.TotalDebit.Equal(decimal.NewFromInt(250)))
}
