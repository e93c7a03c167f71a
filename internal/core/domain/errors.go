package domain

import (
	"fmt"

	"github.com/SscSPs/building_ledger/internal/apperrors"
)

// newStateError reads like "invalid state: journal entry 42 is DRAFT, cannot post".
func newStateError(kind, id, status, action, detail string) error {
	if detail != "" {
		return fmt.Errorf("%w: %s %s is %s, cannot %s: %s", apperrors.ErrInvalidState, kind, id, status, action, detail)
	}
	return fmt.Errorf("%w: %s %s is %s, cannot %s", apperrors.ErrInvalidState, kind, id, status, action)
}
