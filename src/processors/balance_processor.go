package processors

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/username/equityflow/src/models"
)

type balanceProcessorImpl struct{}

// NewBalanceProcessor creates a new instance of BalanceProcessor.
func NewBalanceProcessor() BalanceProcessor {
	return &balanceProcessorImpl{}
}

// SymbolBalance only counts BUY and SELL records of the symbol.
func (p *balanceProcessorImpl) SymbolBalance(symbol string, records []models.Transaction) models.StockBalance {
	balance := models.StockBalance{Symbol: symbol, StockQuantity: decimal.Zero, CashBalance: decimal.Zero}
	for _, tx := range records {
		if tx.Symbol != symbol || !tx.Type.IsStock() {
			continue
		}
		balance.StockQuantity = balance.StockQuantity.Add(tx.SignedQuantity())
		balance.CashBalance = balance.CashBalance.Add(tx.NetAmount())
	}
	return balance
}

// AllSymbolBalances returns one row per traded symbol, largest holding first.
// Equal holdings are ordered by symbol.
func (p *balanceProcessorImpl) AllSymbolBalances(records []models.Transaction) []models.StockBalance {
	bySymbol := make(map[string]*models.StockBalance)
	for _, tx := range records {
		if !tx.Type.IsStock() {
			continue
		}
		b, ok := bySymbol[tx.Symbol]
		if !ok {
			b = &models.StockBalance{Symbol: tx.Symbol, StockQuantity: decimal.Zero, CashBalance: decimal.Zero}
			bySymbol[tx.Symbol] = b
		}
		b.StockQuantity = b.StockQuantity.Add(tx.SignedQuantity())
		b.CashBalance = b.CashBalance.Add(tx.NetAmount())
	}

	balances := make([]models.StockBalance, 0, len(bySymbol))
	for _, b := range bySymbol {
		balances = append(balances, *b)
	}
	sort.Slice(balances, func(i, j int) bool {
		if c := balances[i].StockQuantity.Cmp(balances[j].StockQuantity); c != 0 {
			return c > 0
		}
		return balances[i].Symbol < balances[j].Symbol
	})
	return balances
}

func (p *balanceProcessorImpl) CategoryBalance(txnType models.TxnType, records []models.Transaction) models.CategoryBalance {
	balance := models.CategoryBalance{Type: txnType, CashBalance: decimal.Zero}
	for _, tx := range records {
		if tx.Type == txnType {
			balance.CashBalance = balance.CashBalance.Add(tx.NetAmount())
		}
	}
	return balance
}

// AllCategoryBalances returns one row per type present, ordered by type name.
func (p *balanceProcessorImpl) AllCategoryBalances(records []models.Transaction) []models.CategoryBalance {
	byType := make(map[models.TxnType]decimal.Decimal)
	for _, tx := range records {
		current, ok := byType[tx.Type]
		if !ok {
			current = decimal.Zero
		}
		byType[tx.Type] = current.Add(tx.NetAmount())
	}

	balances := make([]models.CategoryBalance, 0, len(byType))
	for t, total := range byType {
		balances = append(balances, models.CategoryBalance{Type: t, CashBalance: total})
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].Type < balances[j].Type })
	return balances
}

// AvailableBalance is total credit minus total debit; zero for an empty ledger.
func (p *balanceProcessorImpl) AvailableBalance(records []models.Transaction) decimal.Decimal {
	credit, debit := decimal.Zero, decimal.Zero
	for _, tx := range records {
		credit = credit.Add(tx.Credit)
		debit = debit.Add(tx.Debit)
	}
	return credit.Sub(debit)
}
