package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

// EntryCursor marks the last journal entry of a page. Entries are listed by
// entry date descending, then entry number descending.
type EntryCursor struct {
	EntryDate   time.Time
	EntryNumber string
}

// EncodeEntryCursor creates an opaque token for the entry after which the next page starts.
func EncodeEntryCursor(c EntryCursor) string {
	tokenStr := fmt.Sprintf("%s|%s", c.EntryDate.UTC().Format(dateFormat), c.EntryNumber)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeEntryCursor parses a token produced by EncodeEntryCursor.
func DecodeEntryCursor(token string) (EntryCursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (split)")
	}
	entryDate, err := time.Parse(dateFormat, parts[0])
	if err != nil {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (entry date parse): %w", err)
	}
	return EntryCursor{EntryDate: entryDate, EntryNumber: parts[1]}, nil
}

// After reports whether an entry sorts after the cursor, i.e. belongs to the next page.
func (c EntryCursor) After(entryDate time.Time, entryNumber string) bool {
	d := entryDate.UTC().Format(dateFormat)
	cd := c.EntryDate.UTC().Format(dateFormat)
	if d != cd {
		return d < cd
	}
	return entryNumber < c.EntryNumber
}
