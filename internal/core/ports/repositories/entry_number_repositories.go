package repositories

import "context"

// EntryNumberRepository is the atomic per (tenant, year, month) counter behind entry numbers.
type EntryNumberRepository interface {
	// NextSequence increments and returns the counter. On first use the counter
	// starts after the highest sequence already present in stored entry numbers.
	// Inside a unit of work the key stays locked until it ends.
	NextSequence(ctx context.Context, tenantID string, year, month int) (int, error)
}
