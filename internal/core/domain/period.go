package domain

import (
	"fmt"
	"time"
)

// PeriodStatus is the lifecycle state of a financial period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
	PeriodLocked PeriodStatus = "LOCKED"
)

// FinancialPeriod is one calendar month of a tenant's fiscal year.
type FinancialPeriod struct {
	PeriodID     string       `json:"periodID"`
	TenantID     string       `json:"tenantID"`
	FiscalYear   int          `json:"fiscalYear"`
	PeriodNumber int          `json:"periodNumber"` // 1..12
	StartDate    time.Time    `json:"startDate"`
	EndDate      time.Time    `json:"endDate"` // inclusive
	Status       PeriodStatus `json:"status"`
	ClosedAt     *time.Time   `json:"closedAt,omitempty"`
	ClosedBy     *string      `json:"closedBy,omitempty"`
	AuditFields
}

// IsWritable is false once the period has been closed or locked.
func (p FinancialPeriod) IsWritable() bool {
	return p.Status == PeriodOpen
}

// Contains reports whether date falls on a day inside the period.
func (p FinancialPeriod) Contains(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// MonthBounds returns the first and last day of the given month in UTC.
func MonthBounds(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("period number %d out of range 1..12", month)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end, nil
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
