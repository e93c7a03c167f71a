package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	at := time.Date(2025, 3, 20, 9, 30, 0, 0, time.UTC)
	event := domain.LedgerEvent{
		EventID:     "ev-1",
		Type:        domain.EventEntryPosted,
		TenantID:    "tenant-1",
		AggregateID: "entry-1",
		EntryNumber: "JE2025030001",
		Amount:      decimal.RequireFromString("150000.50"),
		OccurredAt:  at,
	}

	t.Run("one keyed message per event", func(t *testing.T) {
		w := &recordingWriter{}
		p := &Publisher{writer: w}

		require.NoError(t, p.Publish(context.Background(), event))
		require.Len(t, w.msgs, 1)

		msg := w.msgs[0]
		assert.Equal(t, "tenant-1", string(msg.Key))
		assert.Equal(t, at, msg.Time)
		assert.Equal(t, "journal_entry.posted", string(msg.Headers[0].Value))

		var decoded domain.LedgerEvent
		require.NoError(t, json.Unmarshal(msg.Value, &decoded))
		assert.Equal(t, "JE2025030001", decoded.EntryNumber)
		assert.True(t, decoded.Amount.Equal(event.Amount))
	})

	t.Run("nothing to send", func(t *testing.T) {
		w := &recordingWriter{err: errors.New("must not be called")}
		assert.NoError(t, (&Publisher{writer: w}).Publish(context.Background()))
	})

	t.Run("broker failure is returned", func(t *testing.T) {
		w := &recordingWriter{err: errors.New("leader not available")}
		err := (&Publisher{writer: w}).Publish(context.Background(), event)
		assert.ErrorContains(t, err, "leader not available")
	})

	t.Run("close reaches the writer", func(t *testing.T) {
		w := &recordingWriter{}
		require.NoError(t, (&Publisher{writer: w}).Close())
		assert.True(t, w.closed)
	})
}
