package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/building_ledger/internal/core/ports/services"
	"github.com/SscSPs/building_ledger/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	// Clock returns the current time. Nil means time.Now in UTC.
	Clock func() time.Time
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		// Return a default logger if not found in context
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

func (s *BaseService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// ensureTenant rejects access to an entity owned by another tenant.
func ensureTenant(kind, id, ownerTenantID, tenantID string) error {
	if ownerTenantID != tenantID {
		return fmt.Errorf("%w: %s %s belongs to another tenant", apperrors.ErrAccessDenied, kind, id)
	}
	return nil
}

// isRejection is true for errors that describe a caller or data problem rather than a failure.
func isRejection(err error) bool {
	var vErr *apperrors.ValidationError
	return errors.As(err, &vErr) ||
		errors.Is(err, apperrors.ErrInvalidState) ||
		errors.Is(err, apperrors.ErrPeriodLocked) ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrAccessDenied)
}

type serviceOptions struct {
	clock     func() time.Time
	publisher portssvc.LedgerEventPublisher
}

// ServiceOption is a functional option shared by the service constructors
type ServiceOption func(*serviceOptions)

// WithClock overrides the time source, mostly for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(o *serviceOptions) {
		o.clock = clock
	}
}

// WithEventPublisher sets where committed ledger events go. Without it events are only logged.
func WithEventPublisher(publisher portssvc.LedgerEventPublisher) ServiceOption {
	return func(o *serviceOptions) {
		o.publisher = publisher
	}
}

func applyOptions(options []ServiceOption) serviceOptions {
	var o serviceOptions
	for _, option := range options {
		option(&o)
	}
	return o
}
