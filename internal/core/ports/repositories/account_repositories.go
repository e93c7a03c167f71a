package repositories

import (
	"context"

	"github.com/SscSPs/building_ledger/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves a tenant's account by its chart code.
	FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing ids are simply absent.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListActiveAccountsByType lists a tenant's active accounts of one type ordered by code.
	ListActiveAccountsByType(ctx context.Context, tenantID string, accountType domain.AccountType) ([]domain.Account, error)

	// ListAccounts lists every account of a tenant ordered by code.
	ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. A taken code yields apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates name, description and the active flag.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
