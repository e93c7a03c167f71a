package services

import (
	"context"

	"github.com/SscSPs/building_ledger/internal/core/domain"
)

// LedgerEventPublisher notifies downstream systems about committed ledger writes.
type LedgerEventPublisher interface {
	Publish(ctx context.Context, events ...domain.LedgerEvent) error
	Close() error
}
