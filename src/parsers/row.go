package parsers

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/equityflow/src/models"
	"github.com/username/equityflow/src/security/validation"
)

// RowColumns is the column layout accepted by ParseRow.
var RowColumns = []string{"Date", "Txn_Type", "Stock_Name", "Qty", "Rate", "Credit", "Debit"}

// ParseRow parses one delimited-text line into a transaction. Credit and debit
// are taken as given. Every failure wraps models.ErrMalformedRow together with
// the field error that caused it.
func ParseRow(line string) (models.Transaction, error) {
	parts := SplitDelimitedLine(line)
	if len(parts) != len(RowColumns) {
		return models.Transaction{}, fmt.Errorf("%w: line must have %d columns: %s. Found %d columns",
			models.ErrMalformedRow, len(RowColumns), strings.Join(RowColumns, ","), len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	date, err := ParseDate(parts[0])
	if err != nil {
		return models.Transaction{}, malformed(err)
	}
	txnType, err := ParseType(parts[1])
	if err != nil {
		return models.Transaction{}, malformed(err)
	}
	if err := validation.ValidateSymbol(parts[2]); err != nil {
		return models.Transaction{}, fmt.Errorf("%w: %w: %v", models.ErrMalformedRow, models.ErrInvalidSymbol, err)
	}

	qty, err := parseAmountColumn(parts[3], "Quantity")
	if err != nil {
		return models.Transaction{}, malformed(err)
	}
	rate, err := parseAmountColumn(parts[4], "Rate")
	if err != nil {
		return models.Transaction{}, malformed(err)
	}
	credit, err := parseAmountColumn(parts[5], "Credit")
	if err != nil {
		return models.Transaction{}, malformed(err)
	}
	debit, err := parseAmountColumn(parts[6], "Debit")
	if err != nil {
		return models.Transaction{}, malformed(err)
	}

	tx := models.Transaction{
		Date:     date,
		Type:     txnType,
		Symbol:   validation.SanitizeSymbol(parts[2]),
		Quantity: qty,
		Price:    rate,
		Credit:   credit,
		Debit:    debit,
	}
	tx.Normalize()
	if err := tx.Validate(); err != nil {
		return models.Transaction{}, malformed(err)
	}
	return tx, nil
}

// parseAmountColumn strips thousands separators before parsing.
func parseAmountColumn(text, field string) (decimal.Decimal, error) {
	return ParseDecimal(strings.ReplaceAll(text, ",", ""), field)
}

func malformed(err error) error {
	return fmt.Errorf("%w: %w", models.ErrMalformedRow, err)
}
