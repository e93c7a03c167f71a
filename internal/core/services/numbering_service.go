package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/building_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/building_ledger/internal/core/ports/services"
)

// entryNumberingService hands out JE{yyyy}{MM}{seq4} numbers from a storage counter.
type entryNumberingService struct {
	BaseService
	counterRepo portsrepo.EntryNumberRepository
}

// NewEntryNumberingService creates the numbering service.
// Call Next inside the unit of work that stores the entry so the counter row stays locked until commit.
func NewEntryNumberingService(repo portsrepo.EntryNumberRepository, options ...ServiceOption) portssvc.EntryNumberingSvc {
	o := applyOptions(options)
	return &entryNumberingService{
		BaseService: BaseService{Clock: o.clock},
		counterRepo: repo,
	}
}

var _ portssvc.EntryNumberingSvc = (*entryNumberingService)(nil)

func (s *entryNumberingService) Next(ctx context.Context, tenantID string, date time.Time) (string, error) {
	year, month := date.Year(), int(date.Month())
	seq, err := s.counterRepo.NextSequence(ctx, tenantID, year, month)
	if err != nil {
		s.LogError(ctx, err, "Failed to advance entry number counter",
			slog.String("tenant_id", tenantID),
			slog.String("prefix", domain.EntryNumberPrefix(year, month)))
		return "", fmt.Errorf("failed to allocate entry number: %w", err)
	}
	if seq > domain.MaxEntrySequence {
		return "", fmt.Errorf("%w: entry numbers for %s are exhausted", apperrors.ErrInvalidState, domain.EntryNumberPrefix(year, month))
	}
	return domain.FormatEntryNumber(year, month, seq), nil
}
