package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryNumbering_Next(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC)

	t.Run("formats the counter value", func(t *testing.T) {
		repo := new(MockEntryNumberRepository)
		repo.On("NextSequence", ctx, "t1", 2025, 3).Return(7, nil).Once()

		number, err := services.NewEntryNumberingService(repo).Next(ctx, "t1", date)
		require.NoError(t, err)
		assert.Equal(t, "JE2025030007", number)
		repo.AssertExpectations(t)
	})

	t.Run("refuses a fifth digit", func(t *testing.T) {
		repo := new(MockEntryNumberRepository)
		repo.On("NextSequence", ctx, "t1", 2025, 3).Return(10000, nil).Once()

		_, err := services.NewEntryNumberingService(repo).Next(ctx, "t1", date)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("wraps storage failures", func(t *testing.T) {
		repo := new(MockEntryNumberRepository)
		repo.On("NextSequence", ctx, "t1", 2025, 3).Return(0, assert.AnError).Once()

		_, err := services.NewEntryNumberingService(repo).Next(ctx, "t1", date)
		assert.ErrorIs(t, err, assert.AnError)
	})
}
