package services

import (
	"context"
	"io"

	"github.com/username/equityflow/src/interchange"
	"github.com/username/equityflow/src/models"
	"github.com/username/equityflow/src/parsers"
)

// CSVImportResult is returned by ImportCSV.
type CSVImportResult struct {
	Imported int                         `json:"imported"`
	Skipped  []interchange.RowDiagnostic `json:"skipped"`
}

// CSVExportRequest selects what ExportCSV writes. Symbol is required for the
// statement view and Type for the category statement; on the balance views
// they narrow the output to one row.
type CSVExportRequest struct {
	View   models.Projection
	Symbol string
	Type   string
}

// LedgerService is the caller-facing surface of the ledger engine. Every error
// it returns can be classified with models.Kind.
type LedgerService interface {
	AddTransaction(ctx context.Context, fields parsers.TransactionFields) (models.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, fields parsers.TransactionFields) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
	DeleteAllTransactions(ctx context.Context) error
	ListTransactions(ctx context.Context) ([]models.Transaction, error)

	SymbolStatement(ctx context.Context, symbol string) ([]models.Transaction, error)
	CategoryStatement(ctx context.Context, txnType string) ([]models.Transaction, error)
	SymbolBalance(ctx context.Context, symbol string) (models.StockBalance, error)
	CategoryBalance(ctx context.Context, txnType string) (models.CategoryBalance, error)
	AllSymbolBalances(ctx context.Context) ([]models.StockBalance, error)
	AllCategoryBalances(ctx context.Context) ([]models.CategoryBalance, error)
	AvailableBalance(ctx context.Context) (models.AvailableBalance, error)

	ExportScript(ctx context.Context, w io.Writer) error
	// ImportScript replaces the ledger with the script's contents, all or nothing.
	ImportScript(ctx context.Context, r io.Reader) error
	ExportCSV(ctx context.Context, w io.Writer, req CSVExportRequest) error
	// ImportCSV appends the valid rows and reports the skipped ones. Rows are
	// not deduplicated against the existing ledger.
	ImportCSV(ctx context.Context, r io.Reader) (*CSVImportResult, error)
}
