package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Projection is one of the fixed delimited-text layouts.
type Projection string

const (
	ProjectionStatement         Projection = "statement"
	ProjectionBalances          Projection = "balances"
	ProjectionCategoryStatement Projection = "category-statement"
	ProjectionCategoryBalances  Projection = "category-balances"
)

var projectionHeaders = map[Projection][]string{
	ProjectionStatement:         {"Date", "Txn_Type", "Stock_Name", "Qty", "Rate", "Credit", "Debit", "Stock_Balance", "Balance"},
	ProjectionBalances:          {"Stock_Name", "Stock_Balance", "Balance"},
	ProjectionCategoryStatement: {"Date", "Txn_Type", "Credit", "Debit", "Balance"},
	ProjectionCategoryBalances:  {"Txn_Type", "Balance"},
}

// ParseProjection accepts the projection names used in URLs and CLI flags.
func ParseProjection(s string) (Projection, error) {
	p := Projection(s)
	if _, ok := projectionHeaders[p]; !ok {
		return "", fmt.Errorf("%w: %q, valid views are statement, balances, category-statement, category-balances", ErrInvalidView, s)
	}
	return p, nil
}

// Header returns the column names of the projection.
func (p Projection) Header() []string {
	h := projectionHeaders[p]
	out := make([]string, len(h))
	copy(out, h)
	return out
}

// StatementRow renders a transaction in the full statement layout.
func StatementRow(t Transaction) []string {
	return []string{
		formatDate(t.Date),
		string(t.Type),
		t.Symbol,
		t.Quantity.String(),
		t.Price.String(),
		t.Credit.String(),
		t.Debit.String(),
		formatOptional(t.RunningStockQuantity),
		formatOptional(t.RunningCashBalance),
	}
}

// CategoryStatementRow renders a transaction in the category statement layout.
func CategoryStatementRow(t Transaction) []string {
	return []string{
		formatDate(t.Date),
		string(t.Type),
		t.Credit.String(),
		t.Debit.String(),
		formatOptional(t.RunningCashBalance),
	}
}

func BalanceRow(b StockBalance) []string {
	return []string{b.Symbol, b.StockQuantity.String(), b.CashBalance.String()}
}

func CategoryBalanceRow(b CategoryBalance) []string {
	return []string{string(b.Type), b.CashBalance.String()}
}

func formatDate(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DisplayDateLayout)
}

func formatOptional(d *decimal.Decimal) string {
	if d == nil {
		return "0"
	}
	return d.String()
}
