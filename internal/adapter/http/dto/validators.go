package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	safeStringRe   = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]+$`)
	currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterValidators(v)
	}
}

// RegisterValidators adds the custom tags used by the DTOs to v.
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("safe_id", validateSafeID)
	_ = v.RegisterValidation("currency_code", validateCurrencyCode)
}

// validateSafeID allows alphanumeric, underscore, dash, and dot.
func validateSafeID(fl validator.FieldLevel) bool {
	return safeStringRe.MatchString(fl.Field().String())
}

// validateCurrencyCode accepts an upper-case ISO 4217 style code.
func validateCurrencyCode(fl validator.FieldLevel) bool {
	return currencyCodeRe.MatchString(fl.Field().String())
}
