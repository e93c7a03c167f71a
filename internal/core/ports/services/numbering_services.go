package services

import (
	"context"
	"time"
)

// EntryNumberingSvc issues JE{yyyy}{MM}{seq4} numbers.
type EntryNumberingSvc interface {
	Next(ctx context.Context, tenantID string, date time.Time) (string, error)
}
