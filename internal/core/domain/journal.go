package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Pending  JournalStatus = "PENDING"
	Approved JournalStatus = "APPROVED"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// EntryType records how an entry came to exist.
type EntryType string

const (
	EntryManual     EntryType = "MANUAL"
	EntryAuto       EntryType = "AUTO"
	EntryAdjustment EntryType = "ADJUSTMENT"
)

// Reference types written by the ledger itself.
const (
	ReferenceTransaction = "TRANSACTION"
	ReferenceReversal    = "REVERSAL"
)

// statusTransitions is the single source of truth for allowed status changes.
var statusTransitions = map[JournalStatus][]JournalStatus{
	Draft:    {Pending},
	Pending:  {Approved, Draft},
	Approved: {Posted},
	Posted:   {Reversed},
	Reversed: {},
}

var transitionVerbs = map[JournalStatus]string{
	Pending:  "submit",
	Draft:    "revert to draft",
	Approved: "approve",
	Posted:   "post",
	Reversed: "reverse",
}

// CanTransition reports whether from -> to is an edge of the status table.
func CanTransition(from, to JournalStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// JournalEntry is the aggregate root: a header plus its ordered lines.
type JournalEntry struct {
	EntryID         string             `json:"entryID"`
	TenantID        string             `json:"tenantID"`
	EntryNumber     string             `json:"entryNumber"`
	EntryDate       time.Time          `json:"entryDate"`
	EntryType       EntryType          `json:"entryType"`
	ReferenceType   *string            `json:"referenceType,omitempty"`
	ReferenceID     *string            `json:"referenceID,omitempty"`
	Description     string             `json:"description"`
	TotalAmount     decimal.Decimal    `json:"totalAmount"`
	Status          JournalStatus      `json:"status"`
	ApprovedBy      *string            `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time         `json:"approvedAt,omitempty"`
	PostedAt        *time.Time         `json:"postedAt,omitempty"`
	ReversedAt      *time.Time         `json:"reversedAt,omitempty"`
	ReversalReason  *string            `json:"reversalReason,omitempty"`
	ReversalEntryID *string            `json:"reversalEntryID,omitempty"`
	Lines           []JournalEntryLine `json:"lines"`
	AuditFields
}

// JournalEntryLine is one debit or credit against a single account.
type JournalEntryLine struct {
	LineID        string          `json:"lineID"`
	EntryID       string          `json:"entryID"`
	AccountID     string          `json:"accountID"`
	DebitAmount   decimal.Decimal `json:"debitAmount"`
	CreditAmount  decimal.Decimal `json:"creditAmount"`
	Description   string          `json:"description"`
	ReferenceType *string         `json:"referenceType,omitempty"`
	ReferenceID   *string         `json:"referenceID,omitempty"`
	LineOrder     int             `json:"lineOrder"`
}

// IsDebit is true when the line carries its amount on the debit side.
func (l JournalEntryLine) IsDebit() bool {
	return l.DebitAmount.IsPositive()
}

// Amount returns whichever side is populated.
func (l JournalEntryLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.DebitAmount
	}
	return l.CreditAmount
}

// TotalDebit sums the debit side of every line.
func (e *JournalEntry) TotalDebit() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range e.Lines {
		sum = sum.Add(l.DebitAmount)
	}
	return sum
}

// TotalCredit sums the credit side of every line.
func (e *JournalEntry) TotalCredit() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range e.Lines {
		sum = sum.Add(l.CreditAmount)
	}
	return sum
}

// IsBalanced reports debit/credit equality only; see ValidateEntry for the full rule set.
func (e *JournalEntry) IsBalanced() bool {
	return e.TotalDebit().Equal(e.TotalCredit())
}

// AccountIDs returns the distinct accounts referenced by the lines, in line order.
func (e *JournalEntry) AccountIDs() []string {
	seen := make(map[string]struct{}, len(e.Lines))
	ids := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}

// TransitionTo moves the entry along the status table.
func (e *JournalEntry) TransitionTo(next JournalStatus, actorID string, at time.Time) error {
	if !CanTransition(e.Status, next) {
		return newStateError("journal entry", e.EntryID, string(e.Status), transitionVerbs[next], "")
	}
	e.Status = next
	e.Touch(actorID, at)
	return nil
}

// Submit moves a draft to pending approval.
func (e *JournalEntry) Submit(actorID string, at time.Time) error {
	return e.TransitionTo(Pending, actorID, at)
}

// RevertToDraft sends a pending entry back for editing.
func (e *JournalEntry) RevertToDraft(actorID string, at time.Time) error {
	return e.TransitionTo(Draft, actorID, at)
}

// Approve records the approver. Balance must be re-validated by the caller.
func (e *JournalEntry) Approve(approverID string, at time.Time) error {
	if err := e.TransitionTo(Approved, approverID, at); err != nil {
		return err
	}
	e.ApprovedBy = &approverID
	e.ApprovedAt = &at
	return nil
}

// Post makes the entry part of the ledger.
func (e *JournalEntry) Post(actorID string, at time.Time) error {
	if err := e.TransitionTo(Posted, actorID, at); err != nil {
		return err
	}
	e.PostedAt = &at
	return nil
}

// MarkReversed flags a posted entry as cancelled by reversalEntryID.
func (e *JournalEntry) MarkReversed(reversalEntryID, reason, actorID string, at time.Time) error {
	if err := e.TransitionTo(Reversed, actorID, at); err != nil {
		return err
	}
	e.ReversedAt = &at
	e.ReversalReason = &reason
	e.ReversalEntryID = &reversalEntryID
	return nil
}

// SwappedLines returns copies of lines with debit and credit exchanged.
// Account, magnitude and line order are preserved; ids are left empty.
func SwappedLines(lines []JournalEntryLine) []JournalEntryLine {
	out := make([]JournalEntryLine, len(lines))
	for i, l := range lines {
		out[i] = JournalEntryLine{
			AccountID:    l.AccountID,
			DebitAmount:  l.CreditAmount,
			CreditAmount: l.DebitAmount,
			Description:  l.Description,
			LineOrder:    l.LineOrder,
		}
	}
	return out
}
