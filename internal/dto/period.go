package dto

// PeriodRef identifies a monthly financial period.
type PeriodRef struct {
	FiscalYear   int `json:"fiscalYear" validate:"required,gte=1900,lte=9999"`
	PeriodNumber int `json:"periodNumber" validate:"required,gte=1,lte=12"`
}
