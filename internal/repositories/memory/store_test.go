package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/core/domain"
	"github.com/SscSPs/building_ledger/internal/repositories/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tenantID = "tenant-1"

func march(day int) time.Time {
	return time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC)
}

func newAccount(code string, accountType domain.AccountType) domain.Account {
	return domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    tenantID,
		Code:        code,
		Name:        "Account " + code,
		AccountType: accountType,
		Level:       1,
		IsActive:    true,
	}
}

func newEntry(number string, date time.Time, status domain.JournalStatus, debitID, creditID string, amount int64) domain.JournalEntry {
	id := uuid.NewString()
	a := decimal.NewFromInt(amount)
	return domain.JournalEntry{
		EntryID:     id,
		TenantID:    tenantID,
		EntryNumber: number,
		EntryDate:   date,
		EntryType:   domain.EntryManual,
		Status:      status,
		TotalAmount: a,
		Lines: []domain.JournalEntryLine{
			{LineID: uuid.NewString(), EntryID: id, AccountID: creditID, CreditAmount: a, LineOrder: 2},
			{LineID: uuid.NewString(), EntryID: id, AccountID: debitID, DebitAmount: a, LineOrder: 1},
		},
	}
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider(memory.NewStore())
	cash := newAccount("1100", domain.Asset)

	boom := errors.New("boom")
	err := repos.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, repos.AccountRepo.SaveAccount(ctx, cash))
		_, err := repos.EntryNumberRepo.NextSequence(ctx, tenantID, 2025, 3)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repos.AccountRepo.FindAccountByID(ctx, cash.AccountID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "account write is undone")

	seq, err := repos.EntryNumberRepo.NextSequence(ctx, tenantID, 2025, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, seq, "counter increment is undone")
}

func TestTxManager_NestedCallsJoin(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider(memory.NewStore())

	err := repos.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		return repos.TxManager.WithinTx(ctx, func(ctx context.Context) error {
			return repos.AccountRepo.SaveAccount(ctx, newAccount("1100", domain.Asset))
		})
	})
	require.NoError(t, err)

	accounts, err := repos.AccountRepo.ListAccounts(ctx, tenantID)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestAccountRepository_DuplicateCode(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider(memory.NewStore())

	require.NoError(t, repos.AccountRepo.SaveAccount(ctx, newAccount("1100", domain.Asset)))
	err := repos.AccountRepo.SaveAccount(ctx, newAccount("1100", domain.Asset))
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	other := newAccount("1100", domain.Asset)
	other.TenantID = "tenant-2"
	assert.NoError(t, repos.AccountRepo.SaveAccount(ctx, other), "codes are unique per tenant")
}

func TestEntryNumberRepository_SeedsFromStoredNumbers(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider(memory.NewStore())
	cash, rent := newAccount("1100", domain.Asset), newAccount("4100", domain.Revenue)

	require.NoError(t, repos.JournalRepo.SaveJournalEntry(ctx,
		newEntry("JE2025030041", march(3), domain.Posted, cash.AccountID, rent.AccountID, 10)))

	seq, err := repos.EntryNumberRepo.NextSequence(ctx, tenantID, 2025, 3)
	require.NoError(t, err)
	assert.Equal(t, 42, seq)

	seq, err = repos.EntryNumberRepo.NextSequence(ctx, tenantID, 2025, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, seq, "each month starts its own counter")
}

func TestEntryNumberRepository_ConcurrentCallsNeverRepeat(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider(memory.NewStore())

	const workers = 50
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int]bool, workers)
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := repos.EntryNumberRepo.NextSequence(ctx, tenantID, 2025, 3)
			assert.NoError(t, err)
			mu.Lock()
			seen[seq] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers)
	for i := 1; i <= workers; i++ {
		assert.True(t, seen[i], "sequence %d issued", i)
	}
}

func TestJournalRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider(memory.NewStore())
	cash, rent := newAccount("1100", domain.Asset), newAccount("4100", domain.Revenue)

	entry := newEntry("JE2025030001", march(5), domain.Draft, cash.AccountID, rent.AccountID, 100)
	require.NoError(t, repos.JournalRepo.SaveJournalEntry(ctx, entry))

	dup := newEntry("JE2025030001", march(6), domain.Draft, cash.AccountID, rent.AccountID, 5)
	assert.ErrorIs(t, repos.JournalRepo.SaveJournalEntry(ctx, dup), apperrors.ErrDuplicateNumber)

	found, err := repos.JournalRepo.FindJournalEntryByID(ctx, entry.EntryID)
	require.NoError(t, err)
	require.Len(t, found.Lines, 2)
	assert.Equal(t, 1, found.Lines[0].LineOrder, "lines come back in line order")

	found.Lines[0].DebitAmount = decimal.NewFromInt(1)
	again, err := repos.JournalRepo.FindJournalEntryByID(ctx, entry.EntryID)
	require.NoError(t, err)
	assert.True(t, again.Lines[0].DebitAmount.Equal(decimal.NewFromInt(100)), "callers get a copy")

	n, err := repos.JournalRepo.CountLinesByAccount(ctx, cash.AccountID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestJournalRepository_UpdateStatusKeepsLines(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider(memory.NewStore())
	cash, rent := newAccount("1100", domain.Asset), newAccount("4100", domain.Revenue)

	entry := newEntry("JE2025030001", march(5), domain.Approved, cash.AccountID, rent.AccountID, 100)
	require.NoError(t, repos.JournalRepo.SaveJournalEntry(ctx, entry))

	now := march(6)
	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.Lines = nil
	require.NoError(t, repos.JournalRepo.UpdateJournalEntryStatus(ctx, entry))

	found, err := repos.JournalRepo.FindJournalEntryByID(ctx, entry.EntryID)
	require.NoError(t, err)
	assert.Equal(t, domain.Posted, found.Status)
	assert.Len(t, found.Lines, 2)
}

func TestJournalRepository_ListPages(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider(memory.NewStore())
	cash, rent := newAccount("1100", domain.Asset), newAccount("4100", domain.Revenue)

	for i, number := range []string{"JE2025030001", "JE2025030002", "JE2025030003"} {
		require.NoError(t, repos.JournalRepo.SaveJournalEntry(ctx,
			newEntry(number, march(i+1), domain.Posted, cash.AccountID, rent.AccountID, 10)))
	}

	page, next, err := repos.JournalRepo.ListJournalEntries(ctx, tenantID, domain.JournalEntryFilter{}, 2, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, next)
	assert.Equal(t, "JE2025030003", page[0].EntryNumber, "newest first")
	assert.Nil(t, page[0].Lines)

	page, next, err = repos.JournalRepo.ListJournalEntries(ctx, tenantID, domain.JournalEntryFilter{}, 2, next)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Nil(t, next)
	assert.Equal(t, "JE2025030001", page[0].EntryNumber)

	bad := "!!"
	_, _, err = repos.JournalRepo.ListJournalEntries(ctx, tenantID, domain.JournalEntryFilter{}, 2, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReportingRepository_OnlyPostedActivity(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider(memory.NewStore())
	cash, rent := newAccount("1100", domain.Asset), newAccount("4100", domain.Revenue)
	require.NoError(t, repos.AccountRepo.SaveAccount(ctx, cash))
	require.NoError(t, repos.AccountRepo.SaveAccount(ctx, rent))

	require.NoError(t, repos.JournalRepo.SaveJournalEntry(ctx,
		newEntry("JE2025030001", march(2), domain.Posted, cash.AccountID, rent.AccountID, 150000)))
	require.NoError(t, repos.JournalRepo.SaveJournalEntry(ctx,
		newEntry("JE2025030002", march(3), domain.Reversed, cash.AccountID, rent.AccountID, 100)))
	require.NoError(t, repos.JournalRepo.SaveJournalEntry(ctx,
		newEntry("JE2025030003", march(4), domain.Draft, cash.AccountID, rent.AccountID, 7)))

	rows, err := repos.ReportingRepo.GetTrialBalanceData(ctx, tenantID, march(1), march(31))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1100", rows[0].AccountCode)
	assert.True(t, rows[0].TotalDebit.Equal(decimal.NewFromInt(150100)))
	assert.Equal(t, "4100", rows[1].AccountCode)
	assert.True(t, rows[1].TotalCredit.Equal(decimal.NewFromInt(150100)))

	debit, credit, err := repos.ReportingRepo.GetPostedTotals(ctx, tenantID)
	require.NoError(t, err)
	assert.True(t, debit.Equal(credit))

	unposted, err := repos.JournalRepo.CountUnpostedEntries(ctx, tenantID, march(1), march(31))
	require.NoError(t, err)
	assert.Equal(t, 1, unposted)
}

func TestTransactionRepository_CountsOnlyCorrectedApprovals(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider(memory.NewStore())
	approvedAt := march(10)
	counterparty := " ACME Cleaning "

	for i, corrected := range []bool{true, false, true} {
		account := "acc-5500"
		require.NoError(t, repos.TransactionRepo.SaveTransaction(ctx, domain.Transaction{
			TransactionID:     uuid.NewString(),
			TenantID:          tenantID,
			TransactionDate:   march(i + 1),
			Direction:         domain.DirectionExpense,
			Category:          domain.CategoryCleaning,
			Amount:            decimal.NewFromInt(800),
			Counterparty:      &counterparty,
			ApprovedAccountID: &account,
			Corrected:         corrected,
			Status:            domain.TransactionApproved,
			ApprovedAt:        &approvedAt,
		}))
	}

	query := "acme cleaning"
	n, err := repos.TransactionRepo.CountSimilarApprovals(ctx, domain.SimilarTransactionQuery{
		TenantID:          tenantID,
		Direction:         domain.DirectionExpense,
		Counterparty:      &query,
		Category:          domain.CategoryCleaning,
		ApprovedAccountID: "acc-5500",
		Since:             march(1),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n, "accepted suggestions are not corrections")
}
