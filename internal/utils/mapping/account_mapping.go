package mapping

import (
	"github.com/SscSPs/building_ledger/internal/core/domain"
	"github.com/SscSPs/building_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		TenantID:        d.TenantID,
		Code:            d.Code,
		Name:            d.Name,
		AccountType:     models.AccountType(d.AccountType),
		ParentAccountID: d.ParentAccountID,
		Level:           d.Level,
		Description:     d.Description,
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		TenantID:        m.TenantID,
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		ParentAccountID: m.ParentAccountID,
		Level:           m.Level,
		Description:     m.Description,
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

// ToModelPeriod converts a domain FinancialPeriod to a model FinancialPeriod
func ToModelPeriod(d domain.FinancialPeriod) models.FinancialPeriod {
	return models.FinancialPeriod{
		PeriodID:     d.PeriodID,
		TenantID:     d.TenantID,
		FiscalYear:   d.FiscalYear,
		PeriodNumber: d.PeriodNumber,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		Status:       string(d.Status),
		ClosedAt:     d.ClosedAt,
		ClosedBy:     d.ClosedBy,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPeriod converts a model FinancialPeriod to a domain FinancialPeriod.
// Dates come back from DATE columns and are normalized to midnight UTC.
func ToDomainPeriod(m models.FinancialPeriod) domain.FinancialPeriod {
	return domain.FinancialPeriod{
		PeriodID:     m.PeriodID,
		TenantID:     m.TenantID,
		FiscalYear:   m.FiscalYear,
		PeriodNumber: m.PeriodNumber,
		StartDate:    domain.DateOnly(m.StartDate),
		EndDate:      domain.DateOnly(m.EndDate),
		Status:       domain.PeriodStatus(m.Status),
		ClosedAt:     m.ClosedAt,
		ClosedBy:     m.ClosedBy,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
