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
	"github.com/google/uuid"
)

type unitKey struct{}

// unitState is shared by every call joined to the outermost unit of work.
type unitState struct {
	events []domain.LedgerEvent
}

// ledgerUnit runs ledger writes in one storage transaction.
// Nested calls join the outer one. Only the outermost call retries a numbering
// collision and publishes the events queued with record.
type ledgerUnit struct {
	base      *BaseService
	txManager portsrepo.TransactionManager
	publisher portssvc.LedgerEventPublisher
}

func (u *ledgerUnit) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if _, joined := ctx.Value(unitKey{}).(*unitState); joined {
		return u.txManager.WithinTx(ctx, fn)
	}

	state, err := u.attempt(ctx, fn)
	if errors.Is(err, apperrors.ErrDuplicateNumber) {
		u.base.GetLogger(ctx).Warn("Entry number collision, retrying with a fresh number",
			slog.String("operation", op))
		state, err = u.attempt(ctx, fn)
		if errors.Is(err, apperrors.ErrDuplicateNumber) {
			return fmt.Errorf("%w: %s: %v", apperrors.ErrTransient, op, err)
		}
	}
	if err != nil {
		return err
	}

	u.publish(ctx, state.events)
	return nil
}

func (u *ledgerUnit) attempt(ctx context.Context, fn func(ctx context.Context) error) (*unitState, error) {
	state := &unitState{}
	ctx = context.WithValue(ctx, unitKey{}, state)
	return state, u.txManager.WithinTx(ctx, fn)
}

// record queues events for publication once the outermost unit commits.
func record(ctx context.Context, events ...domain.LedgerEvent) {
	if state, ok := ctx.Value(unitKey{}).(*unitState); ok {
		state.events = append(state.events, events...)
	}
}

func (u *ledgerUnit) publish(ctx context.Context, events []domain.LedgerEvent) {
	if len(events) == 0 {
		return
	}
	if u.publisher == nil {
		for _, e := range events {
			u.base.LogInfo(ctx, "Ledger event",
				slog.String("type", string(e.Type)),
				slog.String("tenant_id", e.TenantID),
				slog.String("aggregate_id", e.AggregateID))
		}
		return
	}
	if err := u.publisher.Publish(ctx, events...); err != nil {
		// the write is committed; publication failures are reported, not returned
		u.base.LogError(ctx, err, "Failed to publish ledger events",
			slog.Int("count", len(events)))
	}
}

func newEvent(eventType domain.LedgerEventType, entry *domain.JournalEntry, aggregateID string) domain.LedgerEvent {
	return domain.LedgerEvent{
		EventID:     uuid.NewString(),
		Type:        eventType,
		TenantID:    entry.TenantID,
		AggregateID: aggregateID,
		EntryNumber: entry.EntryNumber,
		Amount:      entry.TotalAmount,
		OccurredAt:  entry.LastUpdatedAt,
	}
}
