package dto

import "github.com/SscSPs/building_ledger/internal/core/domain"

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code            string             `json:"code" validate:"required,len=4,numeric"`
	Name            string             `json:"name" validate:"required,max=100"`
	AccountType     domain.AccountType `json:"accountType" validate:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID *string            `json:"parentAccountID" validate:"omitempty,uuid"`
	Description     string             `json:"description" validate:"max=500"`
}
