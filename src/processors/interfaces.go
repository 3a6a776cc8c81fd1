package processors

import (
	"github.com/shopspring/decimal"
	"github.com/username/equityflow/src/models"
)

// StatementProcessor attaches running balances to an ordered record set.
type StatementProcessor interface {
	// SymbolStatement orders by (date, id) and fills both running stock quantity
	// and running cash balance.
	SymbolStatement(records []models.Transaction) []models.Transaction
	// CategoryStatement orders by (date, id) and fills the running cash balance only.
	CategoryStatement(records []models.Transaction) []models.Transaction
}

// BalanceProcessor consolidates records into single aggregate rows.
type BalanceProcessor interface {
	SymbolBalance(symbol string, records []models.Transaction) models.StockBalance
	AllSymbolBalances(records []models.Transaction) []models.StockBalance
	CategoryBalance(txnType models.TxnType, records []models.Transaction) models.CategoryBalance
	AllCategoryBalances(records []models.Transaction) []models.CategoryBalance
	AvailableBalance(records []models.Transaction) decimal.Decimal
}
