package parsers

import (
	"fmt"

	"github.com/username/equityflow/src/models"
	"github.com/username/equityflow/src/security/validation"
)

// TransactionFields holds the raw strings of a manually entered transaction.
type TransactionFields struct {
	Date     string `json:"date"`
	Type     string `json:"txn_type"`
	Symbol   string `json:"stock_name"`
	Quantity string `json:"qty"`
	Rate     string `json:"rate"`
	Amount   string `json:"amount"`
}

// BuildTransaction validates entry fields and derives credit and debit from
// the type and the unsigned amount.
func BuildTransaction(fields TransactionFields) (models.Transaction, error) {
	date, err := ParseDate(fields.Date)
	if err != nil {
		return models.Transaction{}, err
	}
	txnType, err := ParseType(fields.Type)
	if err != nil {
		return models.Transaction{}, err
	}
	if err := validation.ValidateSymbol(fields.Symbol); err != nil {
		return models.Transaction{}, fmt.Errorf("%w: %v", models.ErrInvalidSymbol, err)
	}
	qty, err := ParseDecimal(fields.Quantity, "Quantity")
	if err != nil {
		return models.Transaction{}, err
	}
	rate, err := ParseDecimal(fields.Rate, "Rate")
	if err != nil {
		return models.Transaction{}, err
	}
	amount, err := ParseDecimal(fields.Amount, "Amount")
	if err != nil {
		return models.Transaction{}, err
	}
	return models.NewTransaction(date, txnType, validation.SanitizeSymbol(fields.Symbol), qty, rate, amount)
}
