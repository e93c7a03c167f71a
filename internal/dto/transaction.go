package dto

import (
	"time"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest describes a raw income or expense event.
type CreateTransactionRequest struct {
	TransactionDate time.Time        `json:"transactionDate" validate:"required"`
	Direction       domain.Direction `json:"direction" validate:"required,oneof=INCOME EXPENSE"`
	Category        domain.Category  `json:"category" validate:"required,oneof=MANAGEMENT_FEE_INCOME RENTAL_INCOME PARKING_FEE_INCOME FACILITY_MAINTENANCE PERSONNEL CLEANING SECURITY UTILITY TAX REPAIR INSURANCE OTHER"`
	Amount          decimal.Decimal  `json:"amount" validate:"gt=0"`
	Counterparty    *string          `json:"counterparty" validate:"omitempty,max=200"`
	Description     string           `json:"description" validate:"max=500"`
}

// ApproveTransactionRequest finalizes the account of a pending transaction.
type ApproveTransactionRequest struct {
	AccountID string  `json:"accountID" validate:"required"`
	Notes     *string `json:"notes" validate:"omitempty,max=500"`
}

// RejectTransactionRequest carries the rejection reason.
type RejectTransactionRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}
