package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether money came in or went out.
type Direction string

const (
	DirectionIncome  Direction = "INCOME"
	DirectionExpense Direction = "EXPENSE"
)

// Category is the business classification of a raw transaction.
type Category string

const (
	CategoryManagementFeeIncome Category = "MANAGEMENT_FEE_INCOME"
	CategoryRentalIncome        Category = "RENTAL_INCOME"
	CategoryParkingFeeIncome    Category = "PARKING_FEE_INCOME"
	CategoryFacilityMaintenance Category = "FACILITY_MAINTENANCE"
	CategoryPersonnel           Category = "PERSONNEL"
	CategoryCleaning            Category = "CLEANING"
	CategorySecurity            Category = "SECURITY"
	CategoryUtility             Category = "UTILITY"
	CategoryTax                 Category = "TAX"
	CategoryRepair              Category = "REPAIR"
	CategoryInsurance           Category = "INSURANCE"
	CategoryOther               Category = "OTHER"
)

// TransactionStatus is the lifecycle state of a raw transaction.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "PENDING"
	TransactionApproved  TransactionStatus = "APPROVED"
	TransactionRejected  TransactionStatus = "REJECTED"
	TransactionProcessed TransactionStatus = "PROCESSED"
)

// Transaction is a raw income or expense event waiting to be journalized.
type Transaction struct {
	TransactionID      string            `json:"transactionID"`
	TenantID           string            `json:"tenantID"`
	TransactionDate    time.Time         `json:"transactionDate"`
	Direction          Direction         `json:"direction"`
	Category           Category          `json:"category"`
	Amount             decimal.Decimal   `json:"amount"`
	Counterparty       *string           `json:"counterparty,omitempty"`
	Description        string            `json:"description"`
	SuggestedAccountID *string           `json:"suggestedAccountID,omitempty"`
	SuggestedRuleID    *string           `json:"suggestedRuleID,omitempty"`
	ConfidenceScore    *decimal.Decimal  `json:"confidenceScore,omitempty"`
	ApprovedAccountID  *string           `json:"approvedAccountID,omitempty"`
	Corrected          bool              `json:"corrected"` // approved account differs from the suggestion
	Status             TransactionStatus `json:"status"`
	ApprovedBy         *string           `json:"approvedBy,omitempty"`
	ApprovedAt         *time.Time        `json:"approvedAt,omitempty"`
	ApprovalNotes      *string           `json:"approvalNotes,omitempty"`
	RejectionReason    *string           `json:"rejectionReason,omitempty"`
	JournalEntryID     *string           `json:"journalEntryID,omitempty"`
	ProcessedAt        *time.Time        `json:"processedAt,omitempty"`
	AuditFields
}

// ApplySuggestion stores a classification result on the transaction.
func (t *Transaction) ApplySuggestion(s *ClassificationSuggestion) {
	if s == nil {
		return
	}
	accountID := s.AccountID
	confidence := s.Confidence
	t.SuggestedAccountID = &accountID
	t.ConfidenceScore = &confidence
	t.SuggestedRuleID = s.RuleID
}

// Approve finalizes the account. Only pending transactions can be approved.
func (t *Transaction) Approve(accountID, approverID string, notes *string, at time.Time) error {
	if t.Status != TransactionPending {
		return invalidTransactionState(t, "approve")
	}
	t.Corrected = !t.SuggestionMatches(accountID)
	t.ApprovedAccountID = &accountID
	t.ApprovedBy = &approverID
	t.ApprovedAt = &at
	t.ApprovalNotes = notes
	t.Status = TransactionApproved
	t.Touch(approverID, at)
	return nil
}

// Reject is terminal. Only pending transactions can be rejected.
func (t *Transaction) Reject(reason, actorID string, at time.Time) error {
	if t.Status != TransactionPending {
		return invalidTransactionState(t, "reject")
	}
	t.RejectionReason = &reason
	t.Status = TransactionRejected
	t.Touch(actorID, at)
	return nil
}

// CanProcess reports whether the transaction is ready to become a journal entry.
func (t *Transaction) CanProcess() error {
	if t.Status != TransactionApproved {
		return invalidTransactionState(t, "process")
	}
	if t.ApprovedAccountID == nil || *t.ApprovedAccountID == "" {
		return newStateError("transaction", t.TransactionID, string(t.Status), "process", "no approved account")
	}
	return nil
}

// MarkProcessed links the transaction to the journal entry created for it.
func (t *Transaction) MarkProcessed(entryID, actorID string, at time.Time) error {
	if err := t.CanProcess(); err != nil {
		return err
	}
	t.JournalEntryID = &entryID
	t.ProcessedAt = &at
	t.Status = TransactionProcessed
	t.Touch(actorID, at)
	return nil
}

// SuggestionMatches is true when the classifier had already proposed accountID.
func (t *Transaction) SuggestionMatches(accountID string) bool {
	return t.SuggestedAccountID != nil && *t.SuggestedAccountID == accountID
}

func invalidTransactionState(t *Transaction, action string) error {
	return newStateError("transaction", t.TransactionID, string(t.Status), action, "")
}
