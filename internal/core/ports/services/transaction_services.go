package services

import (
	"context"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	"github.com/SscSPs/building_ledger/internal/dto"
)

// TransactionReaderSvc defines read operations for raw transactions
type TransactionReaderSvc interface {
	GetTransaction(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, tenantID string, status *domain.TransactionStatus, limit int) ([]domain.Transaction, error)
}

// TransactionWriterSvc drives the Pending -> Approved/Rejected -> Processed lifecycle
type TransactionWriterSvc interface {
	CreateTransaction(ctx context.Context, tenantID string, req dto.CreateTransactionRequest, actorID string) (*domain.Transaction, error)
	ApproveTransaction(ctx context.Context, tenantID, transactionID string, req dto.ApproveTransactionRequest, approverID string) (*domain.Transaction, error)
	RejectTransaction(ctx context.Context, tenantID, transactionID string, req dto.RejectTransactionRequest, actorID string) (*domain.Transaction, error)

	// ProcessToJournalEntry turns an approved transaction into a posted entry atomically.
	ProcessToJournalEntry(ctx context.Context, tenantID, transactionID, actorID string) (*domain.JournalEntry, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
