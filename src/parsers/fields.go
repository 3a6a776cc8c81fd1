package parsers

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/equityflow/src/models"
)

type dateLayout struct {
	layout    string
	shortYear bool
}

// Tried in order; the first layout that parses wins.
// d/M/yy, dd/MM/yyyy, d/M/yyyy, dd/M/yyyy, dd/MM/yy, yyyy/M/d, yyyy/MM/dd
var dateLayouts = []dateLayout{
	{"2/1/06", true},
	{"02/01/2006", false},
	{"2/1/2006", false},
	{"02/1/2006", false},
	{"02/01/06", true},
	{"2006/1/2", false},
	{"2006/01/02", false},
}

// ParseDate parses a calendar date in one of the accepted day-first or
// year-first layouts. Two-digit years fall in 2000-2099.
func ParseDate(text string) (time.Time, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", models.ErrInvalidDate)
	}
	for _, l := range dateLayouts {
		t, err := time.Parse(l.layout, trimmed)
		if err != nil {
			continue
		}
		if l.shortYear && t.Year() < 2000 {
			t = t.AddDate(100, 0, 0)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q, expected d/M/yy, dd/MM/yyyy or yyyy/MM/dd", models.ErrInvalidDate, trimmed)
}

// ParseType normalises and validates a transaction type name.
func ParseType(text string) (models.TxnType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(text))
	if normalized == "" {
		return "", fmt.Errorf("%w: transaction type is required", models.ErrInvalidTransactionType)
	}
	t := models.TxnType(normalized)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q, valid types are %s", models.ErrInvalidTransactionType, normalized, models.ValidTxnTypeNames())
	}
	return t, nil
}

// ParseDecimal parses an exact decimal. Blank input is zero.
func ParseDecimal(text, field string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, &models.NumberError{Field: field, Value: trimmed}
	}
	return d, nil
}

// SplitDelimitedLine splits on commas outside double-quoted spans. Quote
// characters are dropped; doubled quotes are not treated as escapes.
func SplitDelimitedLine(line string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(parts, current.String())
}
