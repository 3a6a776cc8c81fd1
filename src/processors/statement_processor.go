package processors

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/username/equityflow/src/models"
)

type statementProcessorImpl struct{}

// NewStatementProcessor creates a new instance of StatementProcessor.
func NewStatementProcessor() StatementProcessor {
	return &statementProcessorImpl{}
}

func (p *statementProcessorImpl) SymbolStatement(records []models.Transaction) []models.Transaction {
	out := sortedCopy(records)
	quantity, cash := decimal.Zero, decimal.Zero
	for i := range out {
		quantity = quantity.Add(out[i].SignedQuantity())
		cash = cash.Add(out[i].NetAmount())
		q, c := quantity, cash
		out[i].RunningStockQuantity = &q
		out[i].RunningCashBalance = &c
	}
	return out
}

func (p *statementProcessorImpl) CategoryStatement(records []models.Transaction) []models.Transaction {
	out := sortedCopy(records)
	cash := decimal.Zero
	for i := range out {
		cash = cash.Add(out[i].NetAmount())
		c := cash
		out[i].RunningCashBalance = &c
		out[i].RunningStockQuantity = nil
	}
	return out
}

// sortedCopy orders by date then id without touching the caller's slice.
func sortedCopy(records []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
