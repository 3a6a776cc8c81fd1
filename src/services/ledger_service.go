package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/patrickmn/go-cache"
	"github.com/username/equityflow/src/interchange"
	"github.com/username/equityflow/src/logger"
	"github.com/username/equityflow/src/models"
	"github.com/username/equityflow/src/parsers"
	"github.com/username/equityflow/src/processors"
	"github.com/username/equityflow/src/store"
)

const (
	cacheKeyAllSymbolBalances   = "balances:symbols"
	cacheKeyAllCategoryBalances = "balances:categories"
	cacheKeyAvailableBalance    = "balances:available"
	cacheKeySymbolPrefix        = "balances:symbol:"
	cacheKeyCategoryPrefix      = "balances:category:"
)

type ledgerServiceImpl struct {
	store              store.LedgerStore
	statementProcessor processors.StatementProcessor
	balanceProcessor   processors.BalanceProcessor
	reportCache        *cache.Cache
	currency           string
}

// NewLedgerService wires the store, the calculators and the aggregate cache.
func NewLedgerService(
	ledgerStore store.LedgerStore,
	statementProcessor processors.StatementProcessor,
	balanceProcessor processors.BalanceProcessor,
	reportCache *cache.Cache,
	currency string,
) LedgerService {
	return &ledgerServiceImpl{
		store:              ledgerStore,
		statementProcessor: statementProcessor,
		balanceProcessor:   balanceProcessor,
		reportCache:        reportCache,
		currency:           currency,
	}
}

func (s *ledgerServiceImpl) invalidateCache(ctx context.Context) {
	s.reportCache.Flush()
	logger.FromContext(ctx).Debug("Aggregate cache invalidated")
}

func (s *ledgerServiceImpl) AddTransaction(ctx context.Context, fields parsers.TransactionFields) (models.Transaction, error) {
	tx, err := parsers.BuildTransaction(fields)
	if err != nil {
		return models.Transaction{}, err
	}
	id, err := s.store.Insert(ctx, tx)
	if err != nil {
		return models.Transaction{}, err
	}
	tx.ID = id
	s.invalidateCache(ctx)
	logger.FromContext(ctx).Info("Transaction added", "id", id, "type", tx.Type, "symbol", tx.Symbol)
	return tx, nil
}

func (s *ledgerServiceImpl) UpdateTransaction(ctx context.Context, id int64, fields parsers.TransactionFields) (models.Transaction, error) {
	if id <= 0 {
		return models.Transaction{}, fmt.Errorf("%w: select a transaction to modify", models.ErrMissingSelection)
	}
	tx, err := parsers.BuildTransaction(fields)
	if err != nil {
		return models.Transaction{}, err
	}
	tx.ID = id
	if err := s.store.Update(ctx, tx); err != nil {
		return models.Transaction{}, err
	}
	s.invalidateCache(ctx)
	logger.FromContext(ctx).Info("Transaction updated", "id", id)
	return tx, nil
}

func (s *ledgerServiceImpl) DeleteTransaction(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: select a transaction to delete", models.ErrMissingSelection)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	logger.FromContext(ctx).Info("Transaction deleted", "id", id)
	return nil
}

func (s *ledgerServiceImpl) DeleteAllTransactions(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *ledgerServiceImpl) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return s.store.ListAll(ctx)
}

func (s *ledgerServiceImpl) SymbolStatement(ctx context.Context, symbol string) ([]models.Transaction, error) {
	symbol, err := requireSymbol(symbol)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return s.statementProcessor.SymbolStatement(records), nil
}

func (s *ledgerServiceImpl) CategoryStatement(ctx context.Context, txnType string) ([]models.Transaction, error) {
	t, err := parsers.ParseType(txnType)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListByType(ctx, t)
	if err != nil {
		return nil, err
	}
	return s.statementProcessor.CategoryStatement(records), nil
}

func (s *ledgerServiceImpl) SymbolBalance(ctx context.Context, symbol string) (models.StockBalance, error) {
	symbol, err := requireSymbol(symbol)
	if err != nil {
		return models.StockBalance{}, err
	}
	key := cacheKeySymbolPrefix + symbol
	if cached, found := s.reportCache.Get(key); found {
		return cached.(models.StockBalance), nil
	}
	records, err := s.store.ListBySymbol(ctx, symbol)
	if err != nil {
		return models.StockBalance{}, err
	}
	balance := s.balanceProcessor.SymbolBalance(symbol, records)
	s.reportCache.Set(key, balance, cache.DefaultExpiration)
	return balance, nil
}

func (s *ledgerServiceImpl) CategoryBalance(ctx context.Context, txnType string) (models.CategoryBalance, error) {
	t, err := parsers.ParseType(txnType)
	if err != nil {
		return models.CategoryBalance{}, err
	}
	key := cacheKeyCategoryPrefix + string(t)
	if cached, found := s.reportCache.Get(key); found {
		return cached.(models.CategoryBalance), nil
	}
	records, err := s.store.ListByType(ctx, t)
	if err != nil {
		return models.CategoryBalance{}, err
	}
	balance := s.balanceProcessor.CategoryBalance(t, records)
	s.reportCache.Set(key, balance, cache.DefaultExpiration)
	return balance, nil
}

func (s *ledgerServiceImpl) AllSymbolBalances(ctx context.Context) ([]models.StockBalance, error) {
	if cached, found := s.reportCache.Get(cacheKeyAllSymbolBalances); found {
		return cached.([]models.StockBalance), nil
	}
	records, err := s.store.ListStockTrades(ctx)
	if err != nil {
		return nil, err
	}
	balances := s.balanceProcessor.AllSymbolBalances(records)
	s.reportCache.Set(cacheKeyAllSymbolBalances, balances, cache.DefaultExpiration)
	return balances, nil
}

func (s *ledgerServiceImpl) AllCategoryBalances(ctx context.Context) ([]models.CategoryBalance, error) {
	if cached, found := s.reportCache.Get(cacheKeyAllCategoryBalances); found {
		return cached.([]models.CategoryBalance), nil
	}
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	balances := s.balanceProcessor.AllCategoryBalances(records)
	s.reportCache.Set(cacheKeyAllCategoryBalances, balances, cache.DefaultExpiration)
	return balances, nil
}

func (s *ledgerServiceImpl) AvailableBalance(ctx context.Context) (models.AvailableBalance, error) {
	if cached, found := s.reportCache.Get(cacheKeyAvailableBalance); found {
		return cached.(models.AvailableBalance), nil
	}
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return models.AvailableBalance{}, err
	}
	total := s.balanceProcessor.AvailableBalance(records)
	result := models.AvailableBalance{
		Balance:   total,
		Currency:  s.currency,
		Formatted: FormatAmount(total, s.currency),
	}
	s.reportCache.Set(cacheKeyAvailableBalance, result, cache.DefaultExpiration)
	return result, nil
}

func (s *ledgerServiceImpl) ExportScript(ctx context.Context, w io.Writer) error {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return err
	}
	if err := interchange.WriteScript(w, records); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}
	logger.FromContext(ctx).Info("Ledger exported", "records", len(records))
	return nil
}

func (s *ledgerServiceImpl) ImportScript(ctx context.Context, r io.Reader) error {
	statements, err := interchange.ReadStatements(r)
	if err != nil {
		return err
	}
	if len(statements) == 0 {
		return fmt.Errorf("%w: script contains no statements", models.ErrImportAborted)
	}
	if err := s.store.ExecScript(ctx, statements); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	logger.FromContext(ctx).Info("Ledger imported from script", "statements", len(statements))
	return nil
}

func (s *ledgerServiceImpl) ExportCSV(ctx context.Context, w io.Writer, req CSVExportRequest) error {
	var rows [][]string
	switch req.View {
	case models.ProjectionStatement:
		statement, err := s.SymbolStatement(ctx, req.Symbol)
		if err != nil {
			return err
		}
		for _, tx := range statement {
			rows = append(rows, models.StatementRow(tx))
		}
	case models.ProjectionCategoryStatement:
		statement, err := s.CategoryStatement(ctx, req.Type)
		if err != nil {
			return err
		}
		for _, tx := range statement {
			rows = append(rows, models.CategoryStatementRow(tx))
		}
	case models.ProjectionBalances:
		balances, err := s.stockBalancesFor(ctx, req.Symbol)
		if err != nil {
			return err
		}
		for _, b := range balances {
			rows = append(rows, models.BalanceRow(b))
		}
	case models.ProjectionCategoryBalances:
		balances, err := s.categoryBalancesFor(ctx, req.Type)
		if err != nil {
			return err
		}
		for _, b := range balances {
			rows = append(rows, models.CategoryBalanceRow(b))
		}
	default:
		return fmt.Errorf("%w: %q", models.ErrInvalidView, req.View)
	}

	if len(rows) == 0 {
		return fmt.Errorf("%w: %s view is empty", models.ErrEmptyView, req.View)
	}
	if err := interchange.WriteCSV(w, req.View, rows); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}
	return nil
}

func (s *ledgerServiceImpl) stockBalancesFor(ctx context.Context, symbol string) ([]models.StockBalance, error) {
	if strings.TrimSpace(symbol) == "" {
		return s.AllSymbolBalances(ctx)
	}
	symbol = strings.TrimSpace(symbol)
	records, err := s.store.ListBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return []models.StockBalance{s.balanceProcessor.SymbolBalance(symbol, records)}, nil
}

func (s *ledgerServiceImpl) categoryBalancesFor(ctx context.Context, txnType string) ([]models.CategoryBalance, error) {
	if strings.TrimSpace(txnType) == "" {
		return s.AllCategoryBalances(ctx)
	}
	t, err := parsers.ParseType(txnType)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListByType(ctx, t)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return []models.CategoryBalance{s.balanceProcessor.CategoryBalance(t, records)}, nil
}

func (s *ledgerServiceImpl) ImportCSV(ctx context.Context, r io.Reader) (*CSVImportResult, error) {
	parsed, err := interchange.ReadCSV(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}
	result := &CSVImportResult{Skipped: parsed.Skipped}
	for _, d := range parsed.Skipped {
		logger.FromContext(ctx).Warn("Skipping malformed row", "line", d.Line, "reason", d.Reason)
	}
	if len(parsed.Records) > 0 {
		if err := s.store.InsertMany(ctx, parsed.Records); err != nil {
			return result, err
		}
		result.Imported = len(parsed.Records)
		s.invalidateCache(ctx)
	}
	logger.FromContext(ctx).Info("Delimited text import finished", "imported", result.Imported, "skipped", len(result.Skipped))
	return result, nil
}

func requireSymbol(symbol string) (string, error) {
	trimmed := strings.TrimSpace(symbol)
	if trimmed == "" {
		return "", fmt.Errorf("%w: stock name is required", models.ErrMissingSelection)
	}
	return trimmed, nil
}
