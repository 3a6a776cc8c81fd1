package models

import "github.com/shopspring/decimal"

// StockBalance is the consolidated position for one symbol.
type StockBalance struct {
	Symbol        string          `json:"stock_name"`
	StockQuantity decimal.Decimal `json:"stock_balance"`
	CashBalance   decimal.Decimal `json:"balance"`
}

// CategoryBalance is the consolidated cash movement for one transaction type.
type CategoryBalance struct {
	Type        TxnType         `json:"txn_type"`
	CashBalance decimal.Decimal `json:"balance"`
}

// AvailableBalance is the ledger-wide cash position.
type AvailableBalance struct {
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	Formatted string          `json:"formatted"`
}
