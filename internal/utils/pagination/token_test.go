package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeEntryCursor(t *testing.T) {
	cursor := EntryCursor{
		EntryDate:   time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		EntryNumber: "JE2025030042",
	}

	token := EncodeEntryCursor(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeEntryCursor(token)
	require.NoError(t, err, "Decoding should not return an error")
	assert.True(t, cursor.EntryDate.Equal(decoded.EntryDate), "Entry date should match after decode")
	assert.Equal(t, cursor.EntryNumber, decoded.EntryNumber, "Entry number should match after decode")
}

func TestDecodeEntryCursorError(t *testing.T) {
	_, err := DecodeEntryCursor("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	_, err = DecodeEntryCursor(encodeRaw("2025-03-15"))
	assert.Error(t, err, "Should return an error when the separator is missing")
	assert.Contains(t, err.Error(), "split")

	_, err = DecodeEntryCursor(encodeRaw("15/03/2025|JE2025030001"))
	assert.Error(t, err, "Should return an error for a malformed date")
	assert.Contains(t, err.Error(), "entry date parse")
}

func TestEntryCursorAfter(t *testing.T) {
	cursor := EntryCursor{EntryDate: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), EntryNumber: "JE2025030010"}

	assert.True(t, cursor.After(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), "JE2025030099"), "older date is on the next page")
	assert.True(t, cursor.After(cursor.EntryDate, "JE2025030009"), "same date, lower number")
	assert.False(t, cursor.After(cursor.EntryDate, "JE2025030010"), "the cursor entry itself was already returned")
	assert.False(t, cursor.After(time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC), "JE2025030001"))
}

func encodeRaw(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}
