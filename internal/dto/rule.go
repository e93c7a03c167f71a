package dto

import (
	"github.com/SscSPs/building_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRuleRequest defines a classification rule. Zero Confidence and Priority take the defaults.
type CreateRuleRequest struct {
	Name                string           `json:"name" validate:"required,max=200"`
	Direction           domain.Direction `json:"direction" validate:"required,oneof=INCOME EXPENSE"`
	Category            *domain.Category `json:"category" validate:"omitempty,oneof=MANAGEMENT_FEE_INCOME RENTAL_INCOME PARKING_FEE_INCOME FACILITY_MAINTENANCE PERSONNEL CLEANING SECURITY UTILITY TAX REPAIR INSURANCE OTHER"`
	CounterpartyPattern *string          `json:"counterpartyPattern" validate:"omitempty,max=200"`
	DescriptionPattern  *string          `json:"descriptionPattern" validate:"omitempty,max=200"`
	AmountMin           *decimal.Decimal `json:"amountMin" validate:"omitempty,gte=0"`
	AmountMax           *decimal.Decimal `json:"amountMax" validate:"omitempty,gt=0"`
	TargetAccountID     string           `json:"targetAccountID" validate:"required"`
	Confidence          decimal.Decimal  `json:"confidence" validate:"gte=0,lte=1"`
	Priority            int              `json:"priority" validate:"gte=0"`
}
