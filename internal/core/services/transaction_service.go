package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/building_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/building_ledger/internal/core/ports/services"
	"github.com/SscSPs/building_ledger/internal/dto"
	"github.com/google/uuid"
)

const defaultTransactionListLimit = 100

// transactionService moves raw transactions from PENDING to PROCESSED.
type transactionService struct {
	BaseService
	unit            ledgerUnit
	txnRepo         portsrepo.TransactionRepositoryFacade
	accounts        portssvc.AccountReaderSvc
	classifier      portssvc.Classifier
	journal         portssvc.JournalSvcFacade
	periods         portssvc.PeriodGate
	cashAccountCode string
}

// NewTransactionService creates a new transaction service.
// cashAccountCode is the chart code of the account every processed transaction settles against.
func NewTransactionService(
	txManager portsrepo.TransactionManager,
	txnRepo portsrepo.TransactionRepositoryFacade,
	accounts portssvc.AccountReaderSvc,
	classifier portssvc.Classifier,
	journal portssvc.JournalSvcFacade,
	periods portssvc.PeriodGate,
	cashAccountCode string,
	options ...ServiceOption,
) portssvc.TransactionSvcFacade {
	o := applyOptions(options)
	s := &transactionService{
		BaseService:     BaseService{Clock: o.clock},
		txnRepo:         txnRepo,
		accounts:        accounts,
		classifier:      classifier,
		journal:         journal,
		periods:         periods,
		cashAccountCode: cashAccountCode,
	}
	s.unit = ledgerUnit{base: &s.BaseService, txManager: txManager, publisher: o.publisher}
	return s
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) GetTransaction(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, wrapTransactionFindError(err, transactionID)
	}
	if err := ensureTenant("transaction", transactionID, txn.TenantID, tenantID); err != nil {
		return nil, err
	}
	return txn, nil
}

func wrapTransactionFindError(err error, transactionID string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return fmt.Errorf("failed to get transaction: %w", err)
}

func (s *transactionService) ListTransactions(ctx context.Context, tenantID string, status *domain.TransactionStatus, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = defaultTransactionListLimit
	}
	return s.txnRepo.ListTransactions(ctx, tenantID, status, limit)
}

func (s *transactionService) CreateTransaction(ctx context.Context, tenantID string, req dto.CreateTransactionRequest, actorID string) (*domain.Transaction, error) {
	if err := dto.Validate("transaction", req); err != nil {
		return nil, err
	}

	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		TenantID:        tenantID,
		TransactionDate: domain.DateOnly(req.TransactionDate),
		Direction:       req.Direction,
		Category:        req.Category,
		Amount:          req.Amount,
		Counterparty:    req.Counterparty,
		Description:     req.Description,
		Status:          domain.TransactionPending,
		AuditFields:     domain.NewAuditFields(actorID, s.now()),
	}
	txn.ApplySuggestion(s.classifier.Suggest(ctx, txn))

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction",
			slog.String("tenant_id", tenantID),
			slog.String("transaction_id", txn.TransactionID))
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.Bool("classified", txn.SuggestedAccountID != nil))
	return &txn, nil
}

func (s *transactionService) ApproveTransaction(ctx context.Context, tenantID, transactionID string, req dto.ApproveTransactionRequest, approverID string) (*domain.Transaction, error) {
	if err := dto.Validate("transaction approval", req); err != nil {
		return nil, err
	}

	var approved *domain.Transaction
	err := s.unit.run(ctx, "approve transaction", func(ctx context.Context) error {
		txn, err := s.lockTransaction(ctx, tenantID, transactionID)
		if err != nil {
			return err
		}
		if _, err := s.accounts.GetAccountByID(ctx, tenantID, req.AccountID); err != nil {
			return err
		}
		if err := txn.Approve(req.AccountID, approverID, req.Notes, s.now()); err != nil {
			return err
		}
		if err := s.txnRepo.UpdateTransaction(ctx, *txn); err != nil {
			return fmt.Errorf("failed to approve transaction: %w", err)
		}
		approved = txn
		return nil
	})
	if err != nil {
		s.logWriteFailure(ctx, err, "approve transaction", transactionID)
		return nil, err
	}

	if err := s.classifier.LearnFromApproval(ctx, *approved, req.AccountID); err != nil {
		s.LogError(ctx, err, "Classification learning failed, approval stands",
			slog.String("transaction_id", transactionID))
	}

	s.LogInfo(ctx, "Transaction approved",
		slog.String("transaction_id", transactionID),
		slog.String("account_id", req.AccountID),
		slog.Bool("suggestion_accepted", approved.SuggestionMatches(req.AccountID)))
	return approved, nil
}

func (s *transactionService) RejectTransaction(ctx context.Context, tenantID, transactionID string, req dto.RejectTransactionRequest, actorID string) (*domain.Transaction, error) {
	if err := dto.Validate("transaction rejection", req); err != nil {
		return nil, err
	}

	var rejected *domain.Transaction
	err := s.unit.run(ctx, "reject transaction", func(ctx context.Context) error {
		txn, err := s.lockTransaction(ctx, tenantID, transactionID)
		if err != nil {
			return err
		}
		if err := txn.Reject(req.Reason, actorID, s.now()); err != nil {
			return err
		}
		if err := s.txnRepo.UpdateTransaction(ctx, *txn); err != nil {
			return fmt.Errorf("failed to reject transaction: %w", err)
		}
		rejected = txn
		return nil
	})
	if err != nil {
		s.logWriteFailure(ctx, err, "reject transaction", transactionID)
		return nil, err
	}
	return rejected, nil
}

func (s *transactionService) ProcessToJournalEntry(ctx context.Context, tenantID, transactionID, actorID string) (*domain.JournalEntry, error) {
	current, err := s.GetTransaction(ctx, tenantID, transactionID)
	if err != nil {
		return nil, err
	}
	if err := current.CanProcess(); err != nil {
		return nil, err
	}
	if err := s.periods.EnsureWritable(ctx, tenantID, current.TransactionDate); err != nil {
		return nil, err
	}

	var posted *domain.JournalEntry
	err = s.unit.run(ctx, "process transaction", func(ctx context.Context) error {
		txn, err := s.lockTransaction(ctx, tenantID, transactionID)
		if err != nil {
			return err
		}
		if err := txn.CanProcess(); err != nil {
			return err
		}
		cash, err := s.accounts.GetAccountByCode(ctx, tenantID, s.cashAccountCode)
		if err != nil {
			return fmt.Errorf("cash account %s: %w", s.cashAccountCode, err)
		}

		entry, err := s.journal.CreateJournalEntry(ctx, tenantID, entryRequestFor(txn, cash.AccountID), actorID)
		if err != nil {
			return err
		}
		approverID := actorID
		if txn.ApprovedBy != nil {
			approverID = *txn.ApprovedBy
		}
		if _, err := s.journal.SubmitJournalEntry(ctx, tenantID, entry.EntryID, actorID); err != nil {
			return err
		}
		if _, err := s.journal.ApproveJournalEntry(ctx, tenantID, entry.EntryID, approverID); err != nil {
			return err
		}
		entry, err = s.journal.PostJournalEntry(ctx, tenantID, entry.EntryID, actorID)
		if err != nil {
			return err
		}

		if err := txn.MarkProcessed(entry.EntryID, actorID, s.now()); err != nil {
			return err
		}
		if err := s.txnRepo.UpdateTransaction(ctx, *txn); err != nil {
			return fmt.Errorf("failed to mark transaction processed: %w", err)
		}
		record(ctx, newEvent(domain.EventTransactionProcessed, entry, txn.TransactionID))
		posted = entry
		return nil
	})
	if err != nil {
		s.logWriteFailure(ctx, err, "process transaction", transactionID)
		return nil, err
	}

	s.LogInfo(ctx, "Transaction processed",
		slog.String("transaction_id", transactionID),
		slog.String("entry_id", posted.EntryID),
		slog.String("entry_number", posted.EntryNumber))
	return posted, nil
}

// entryRequestFor builds the two-line cash entry for an approved transaction.
// Income debits cash and credits the approved account, expense the reverse.
func entryRequestFor(txn *domain.Transaction, cashAccountID string) dto.CreateJournalEntryRequest {
	debitID, creditID := cashAccountID, *txn.ApprovedAccountID
	if txn.Direction == domain.DirectionExpense {
		debitID, creditID = creditID, debitID
	}
	refType, refID := domain.ReferenceTransaction, txn.TransactionID
	description := txn.Description
	if description == "" {
		description = fmt.Sprintf("%s %s", txn.Direction, txn.Category)
	}
	return dto.CreateJournalEntryRequest{
		EntryDate:     txn.TransactionDate,
		EntryType:     domain.EntryAuto,
		ReferenceType: &refType,
		ReferenceID:   &refID,
		Description:   description,
		Lines: []dto.CreateJournalEntryLineRequest{
			{AccountID: debitID, DebitAmount: txn.Amount, Description: description, LineOrder: 1},
			{AccountID: creditID, CreditAmount: txn.Amount, Description: description, LineOrder: 2},
		},
	}
}

func (s *transactionService) lockTransaction(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByIDForUpdate(ctx, transactionID)
	if err != nil {
		return nil, wrapTransactionFindError(err, transactionID)
	}
	if err := ensureTenant("transaction", transactionID, txn.TenantID, tenantID); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) logWriteFailure(ctx context.Context, err error, op, transactionID string) {
	if isRejection(err) {
		s.LogDebug(ctx, "Transaction write rejected",
			slog.String("operation", op),
			slog.String("transaction_id", transactionID),
			slog.String("reason", err.Error()))
		return
	}
	s.LogError(ctx, err, "Transaction write failed",
		slog.String("operation", op),
		slog.String("transaction_id", transactionID))
}
