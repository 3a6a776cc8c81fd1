package store

import (
	"context"

	"github.com/username/equityflow/src/models"
)

// LedgerStore is the only gateway to persisted transactions.
// Callers serialise mutating calls.
type LedgerStore interface {
	Insert(ctx context.Context, tx models.Transaction) (int64, error)
	// InsertMany persists all records or none.
	InsertMany(ctx context.Context, txs []models.Transaction) error
	// Update replaces every field of the record with tx.ID.
	Update(ctx context.Context, tx models.Transaction) error
	Delete(ctx context.Context, id int64) error
	// DeleteAll removes every record and restarts id assignment at 1.
	DeleteAll(ctx context.Context) error

	// ListAll returns every record, newest id first.
	ListAll(ctx context.Context) ([]models.Transaction, error)
	ListBySymbol(ctx context.Context, symbol string) ([]models.Transaction, error)
	ListByType(ctx context.Context, txnType models.TxnType) ([]models.Transaction, error)
	// ListStockTrades returns the BUY and SELL records.
	ListStockTrades(ctx context.Context) ([]models.Transaction, error)

	// ExecScript runs statements in one database transaction. Any failure rolls
	// the whole batch back and is reported as models.ErrImportAborted.
	ExecScript(ctx context.Context, statements []string) error

	Close() error
}
