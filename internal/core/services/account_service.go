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
	"github.com/SscSPs/building_ledger/internal/seed"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalReader
}

// NewAccountService creates a new account service
func NewAccountService(
	txManager portsrepo.TransactionManager,
	accountRepo portsrepo.AccountRepositoryFacade,
	journalRepo portsrepo.JournalReader,
	options ...ServiceOption,
) portssvc.AccountSvcFacade {
	o := applyOptions(options)
	return &accountService{
		BaseService: BaseService{Clock: o.clock},
		txManager:   txManager,
		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		s.LogError(ctx, err, "Failed to find account by ID",
			slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if err := ensureTenant("account", accountID, account.TenantID, tenantID); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account code %s", apperrors.ErrNotFound, code)
		}
		return nil, fmt.Errorf("failed to get account by code: %w", err)
	}
	return account, nil
}

func (s *accountService) ListActiveAccountsByType(ctx context.Context, tenantID string, accountType domain.AccountType) ([]domain.Account, error) {
	if !accountType.IsValid() {
		return nil, apperrors.NewValidationError("account", apperrors.Issue{Rule: "account_type", Message: fmt.Sprintf("unknown account type %q", accountType)})
	}
	return s.accountRepo.ListActiveAccountsByType(ctx, tenantID, accountType)
}

func (s *accountService) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	if err := dto.Validate("account", req); err != nil {
		return nil, err
	}
	if err := domain.ValidateCode(req.Code, req.AccountType); err != nil {
		return nil, apperrors.NewValidationError("account", apperrors.Issue{Rule: "code", Message: err.Error()})
	}

	var parent *domain.Account
	if req.ParentAccountID != nil {
		p, err := s.GetAccountByID(ctx, tenantID, *req.ParentAccountID)
		if err != nil {
			return nil, err
		}
		if p.AccountType != req.AccountType {
			return nil, apperrors.NewValidationError("account", apperrors.Issue{
				Rule:    "parent_type",
				Message: fmt.Sprintf("parent %s is %s, child must have the same type", p.Code, p.AccountType),
			})
		}
		parent = p
	}

	account := domain.Account{
		AccountID:       uuid.NewString(),
		TenantID:        tenantID,
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     req.AccountType,
		ParentAccountID: req.ParentAccountID,
		Level:           domain.LevelUnder(parent),
		Description:     req.Description,
		IsActive:        true,
		AuditFields:     domain.NewAuditFields(actorID, s.now()),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: account code %s is taken", apperrors.ErrDuplicate, req.Code)
		}
		s.LogError(ctx, err, "Failed to save account",
			slog.String("tenant_id", tenantID),
			slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("tenant_id", tenantID),
		slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) ArchiveAccount(ctx context.Context, tenantID, accountID, actorID string) (*domain.Account, error) {
	var archived *domain.Account
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		account, err := s.GetAccountByID(ctx, tenantID, accountID)
		if err != nil {
			return err
		}
		used, err := s.journalRepo.CountLinesByAccount(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to check account usage: %w", err)
		}
		if used > 0 {
			return apperrors.NewValidationError("account", apperrors.Issue{
				Rule:    "in_use",
				Message: fmt.Sprintf("account %s is referenced by %d journal lines", account.Code, used),
			})
		}
		if !account.IsActive {
			archived = account
			return nil
		}
		account.IsActive = false
		account.Touch(actorID, s.now())
		if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
			return fmt.Errorf("failed to archive account: %w", err)
		}
		archived = account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return archived, nil
}

func (s *accountService) SeedDefaultChart(ctx context.Context, tenantID, actorID string) ([]domain.Account, error) {
	chart, err := seed.DefaultChart()
	if err != nil {
		return nil, err
	}

	var created []domain.Account
	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		created = created[:0]
		byCode := make(map[string]*domain.Account, len(chart))
		existing, err := s.accountRepo.ListAccounts(ctx, tenantID)
		if err != nil {
			return fmt.Errorf("failed to list existing accounts: %w", err)
		}
		for i := range existing {
			byCode[existing[i].Code] = &existing[i]
		}

		now := s.now()
		for _, row := range chart {
			if _, ok := byCode[row.Code]; ok {
				continue
			}
			var parent *domain.Account
			var parentID *string
			if row.Parent != "" {
				parent = byCode[row.Parent]
				if parent == nil {
					return fmt.Errorf("default chart: parent %s of %s is missing", row.Parent, row.Code)
				}
				id := parent.AccountID
				parentID = &id
			}
			account := domain.Account{
				AccountID:       uuid.NewString(),
				TenantID:        tenantID,
				Code:            row.Code,
				Name:            row.Name,
				AccountType:     row.Type,
				ParentAccountID: parentID,
				Level:           domain.LevelUnder(parent),
				IsActive:        true,
				AuditFields:     domain.NewAuditFields(actorID, now),
			}
			if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
				return fmt.Errorf("failed to seed account %s: %w", row.Code, err)
			}
			created = append(created, account)
			byCode[row.Code] = &account
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to seed default chart", slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Default chart seeded",
		slog.String("tenant_id", tenantID),
		slog.Int("created", len(created)))
	return created, nil
}
