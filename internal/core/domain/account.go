package domain

import (
	"fmt"
	"regexp"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// codePrefixes maps each account type to the leading digit of its codes.
var codePrefixes = map[AccountType]byte{
	Asset:     '1',
	Liability: '2',
	Equity:    '3',
	Revenue:   '4',
	Expense:   '5',
}

var accountCodePattern = regexp.MustCompile(`^[0-9]{4}$`)

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	_, ok := codePrefixes[t]
	return ok
}

// IsDebitNormal is true for accounts whose balance grows with debits.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Account represents a node of a tenant's chart of accounts.
type Account struct {
	AccountID       string      `json:"accountID"`
	TenantID        string      `json:"tenantID"`
	Code            string      `json:"code"` // unique per tenant, 4 digits
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	ParentAccountID *string     `json:"parentAccountID,omitempty"`
	Level           int         `json:"level"` // 1 = root
	Description     string      `json:"description"`
	IsActive        bool        `json:"isActive"`
	AuditFields
}

// ValidateCode checks the fixed-width numeric format and the type prefix.
func ValidateCode(code string, accountType AccountType) error {
	if !accountCodePattern.MatchString(code) {
		return fmt.Errorf("account code %q must be a 4 digit number", code)
	}
	prefix, ok := codePrefixes[accountType]
	if !ok {
		return fmt.Errorf("unknown account type %q", accountType)
	}
	if code[0] != prefix {
		return fmt.Errorf("account code %q must start with %c for %s accounts", code, prefix, accountType)
	}
	return nil
}

// LevelUnder returns the level of a child placed below parent, or 1 for a root.
func LevelUnder(parent *Account) int {
	if parent == nil {
		return 1
	}
	return parent.Level + 1
}
