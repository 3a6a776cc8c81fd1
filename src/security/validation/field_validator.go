package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Rhymond/go-money"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	MaxSymbolLength       = 64
	MaxCurrencyCodeLength = 3
)

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateStringRegex checks if a string matches a given regex pattern.
func ValidateStringRegex(s string, pattern *regexp.Regexp, fieldName, formatDescription string) error {
	if !pattern.MatchString(s) {
		return fmt.Errorf("%w: %s ('%s') is not in the expected format (%s)", ErrValidationFailed, fieldName, s, formatDescription)
	}
	return nil
}

// ValidateSymbol checks a stock name supplied by a caller. Empty names are
// allowed here; whether a name is required depends on the transaction type.
func ValidateSymbol(s string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	if err := ValidateStringMaxLength(trimmed, MaxSymbolLength, "Stock Name"); err != nil {
		return err
	}
	return CheckXSSPatterns(trimmed, "Stock Name")
}

var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateCurrencyCode checks that s is a 3-letter ISO 4217 code with a known display format.
func ValidateCurrencyCode(s string) error {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if err := ValidateStringNotEmpty(trimmed, "Currency Code"); err != nil {
		return err
	}
	if err := ValidateStringMaxLength(trimmed, MaxCurrencyCodeLength, "Currency Code"); err != nil {
		return err
	}
	if err := ValidateStringRegex(trimmed, currencyCodeRegex, "Currency Code", "3 uppercase letters"); err != nil {
		return err
	}
	if money.GetCurrency(trimmed) == nil {
		return fmt.Errorf("%w: Currency Code ('%s') is not a known ISO 4217 currency", ErrValidationFailed, trimmed)
	}
	return nil
}
