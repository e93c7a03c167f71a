package domain

import (
	"fmt"
	"strconv"
)

const (
	entryNumberPrefix = "JE"
	// MaxEntrySequence is the largest sequence that fits the 4 digit suffix.
	MaxEntrySequence = 9999
)

// FormatEntryNumber returns an entry number like "JE202503" + "0007".
func FormatEntryNumber(year, month, seq int) string {
	return fmt.Sprintf("%s%04d%02d%04d", entryNumberPrefix, year, month, seq)
}

// EntryNumberPrefix is the part shared by every number of a tenant's month.
func EntryNumberPrefix(year, month int) string {
	return fmt.Sprintf("%s%04d%02d", entryNumberPrefix, year, month)
}

// ParseEntryNumber splits "JE2025030007" into 2025, 3, 7.
func ParseEntryNumber(number string) (year, month, seq int, err error) {
	if len(number) != 12 || number[:2] != entryNumberPrefix {
		return 0, 0, 0, fmt.Errorf("invalid entry number format: %q", number)
	}
	year, err = strconv.Atoi(number[2:6])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in entry number %q: %w", number, err)
	}
	month, err = strconv.Atoi(number[6:8])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("invalid month in entry number %q", number)
	}
	seq, err = strconv.Atoi(number[8:])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in entry number %q: %w", number, err)
	}
	return year, month, seq, nil
}
