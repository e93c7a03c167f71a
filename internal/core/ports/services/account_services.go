package services

import (
	"context"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	"github.com/SscSPs/building_ledger/internal/dto"
)

// AccountReaderSvc is the read side of the account directory
type AccountReaderSvc interface {
	// GetAccountByID fails with ErrNotFound for unknown ids and ErrAccessDenied for another tenant's account.
	GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error)
	ListActiveAccountsByType(ctx context.Context, tenantID string, accountType domain.AccountType) ([]domain.Account, error)
	ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error)
}

// AccountWriterSvc manages the chart of accounts
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error)

	// ArchiveAccount deactivates an account that no journal line references.
	ArchiveAccount(ctx context.Context, tenantID, accountID, actorID string) (*domain.Account, error)

	// SeedDefaultChart creates the default chart, skipping codes the tenant already has.
	// It returns the accounts that were created.
	SeedDefaultChart(ctx context.Context, tenantID, actorID string) ([]domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
