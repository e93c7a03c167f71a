package repositories

import (
	"context"

	"github.com/SscSPs/building_ledger/internal/core/domain"
)

// TransactionReader defines read operations for raw transactions
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionByIDForUpdate locks the row for the rest of the surrounding unit of work.
	FindTransactionByIDForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions lists a tenant's transactions, newest first, optionally by status.
	ListTransactions(ctx context.Context, tenantID string, status *domain.TransactionStatus, limit int) ([]domain.Transaction, error)

	// CountSimilarApprovals counts corrected approvals (approved or processed) matching q.
	CountSimilarApprovals(ctx context.Context, q domain.SimilarTransactionQuery) (int, error)
}

// TransactionWriter defines write operations for raw transactions
type TransactionWriter interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransaction persists every mutable field (suggestion, approval, status, links).
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
