package dto

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// decimals are compared as floats so tags like gt=0 work on money fields
		validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
			if d, ok := v.Interface().(decimal.Decimal); ok {
				return d.InexactFloat64()
			}
			return nil
		}, decimal.Decimal{})
		// the float view above cannot see extra decimal places
		validate.RegisterStructValidation(func(sl validator.StructLevel) {
			req := sl.Current().Interface().(CreateTransactionRequest)
			if !domain.FitsAmountScale(req.Amount) {
				sl.ReportError(req.Amount, "Amount", "amount", "scale", fmt.Sprint(domain.AmountScale))
			}
		}, CreateTransactionRequest{})
	})
	return validate
}

// Validate checks req against its validate tags and returns an itemized
// *apperrors.ValidationError naming every failing field.
func Validate(subject string, req any) error {
	err := validatorInstance().Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrValidation, subject, err)
	}
	vErr := apperrors.NewValidationError(subject)
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			vErr.Add(fe.Tag(), 0, "%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
		} else {
			vErr.Add(fe.Tag(), 0, "%s failed %s", fe.Namespace(), fe.Tag())
		}
	}
	return vErr
}
