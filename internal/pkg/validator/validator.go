// Package validator wraps go-playground/validator with the struct tags used
// across walletkit and a single error shape for every failure.
//
// Besides the stock tags it registers:
//
//	amount      a non-negative decimal such as "0.25", as typed by a user
//	base_units  a non-negative integer amount in a currency's base unit
package validator

import (
	"errors"
	"fmt"
	"regexp"

	gvalidator "github.com/go-playground/validator/v10"
)

// ErrValidationFailed heads the error chain of every failed validation.
var ErrValidationFailed = errors.New("struct validation failed")

var validator *gvalidator.Validate

// Example: "'Networks[0].Name': value '' does not meet the requirements for the 'required' validation"
const errStringFormat = "'%s': value '%v' does not meet the requirements for the '%s' validation"

var (
	amountPattern    = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
	baseUnitsPattern = regexp.MustCompile(`^[0-9]+$`)
)

func init() {
	validator = gvalidator.New(gvalidator.WithRequiredStructEnabled())

	mustRegister("amount", amountPattern)
	mustRegister("base_units", baseUnitsPattern)
}

func mustRegister(tag string, pattern *regexp.Regexp) {
	err := validator.RegisterValidation(tag, func(fl gvalidator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// fieldPath drops the root struct name from a namespace, so that nested
// failures read "Networks[0].Name" instead of "Config.Networks[0].Name".
func fieldPath(fe gvalidator.FieldError) string {
	ns := fe.StructNamespace()
	for i := range len(ns) {
		if ns[i] == '.' {
			return ns[i+1:]
		}
	}
	return fe.Field()
}

func formatError(err error) error {
	var validationErrors gvalidator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := []error{ErrValidationFailed}
	for _, validationErr := range validationErrors {
		errs = append(errs, fmt.Errorf(errStringFormat,
			fieldPath(validationErr),
			validationErr.Value(),
			validationErr.Tag(),
		))
	}

	return errors.Join(errs...)
}

// Validate checks v against its validate tags. A failure is reported as
// ErrValidationFailed joined with one error per offending field.
func Validate(v any) error {
	if err := validator.Struct(v); err != nil {
		return formatError(err)
	}

	return nil
}

// Var checks a single value against tag, e.g. Var(amount, "required,amount").
func Var(value any, tag string) error {
	if err := validator.Var(value, tag); err != nil {
		return formatError(err)
	}

	return nil
}
