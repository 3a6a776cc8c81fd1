package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/username/equityflow/src/config"
	"github.com/username/equityflow/src/database"
	"github.com/username/equityflow/src/logger"
	"github.com/username/equityflow/src/models"
)

// TableName is the ledger table, shared with the script exporter.
const TableName = "ledger_transactions"

const selectColumns = `SELECT id, txn_date, txn_type, stock_name, qty, rate, credit, debit FROM ` + TableName

// SQLiteStore implements LedgerStore on an embedded SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

var _ LedgerStore = (*SQLiteStore)(nil)

// Open opens the database named by cfg and applies migrations.
func Open(cfg *config.AppConfig) (*SQLiteStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: configuration is required", models.ErrStorageFailure)
	}
	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}
	if err := database.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStore wraps an already migrated handle.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Insert(ctx context.Context, tx models.Transaction) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO `+TableName+`
		(txn_date, txn_type, stock_name, qty, rate, credit, debit)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, insertArgs(tx)...)
	if err != nil {
		return 0, fmt.Errorf("%w: error inserting transaction: %v", models.ErrStorageFailure, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: error reading inserted id: %v", models.ErrStorageFailure, err)
	}
	logger.FromContext(ctx).Debug("Inserted ledger transaction", "id", id, "type", tx.Type)
	return id, nil
}

func (s *SQLiteStore) InsertMany(ctx context.Context, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: error beginning database transaction: %v", models.ErrStorageFailure, err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx, `INSERT INTO `+TableName+`
		(txn_date, txn_type, stock_name, qty, rate, credit, debit)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: error preparing insert statement: %v", models.ErrStorageFailure, err)
	}
	defer stmt.Close()

	for i, tx := range txs {
		if _, err := stmt.ExecContext(ctx, insertArgs(tx)...); err != nil {
			return fmt.Errorf("%w: error inserting record %d of %d: %v", models.ErrStorageFailure, i+1, len(txs), err)
		}
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("%w: error committing transactions: %v", models.ErrStorageFailure, err)
	}
	logger.FromContext(ctx).Info("Bulk inserted ledger transactions", "count", len(txs))
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, tx models.Transaction) error {
	if tx.ID <= 0 {
		return fmt.Errorf("%w: update requires a transaction id", models.ErrMissingSelection)
	}
	args := append(insertArgs(tx), tx.ID)
	res, err := s.db.ExecContext(ctx, `UPDATE `+TableName+`
		SET txn_date = ?, txn_type = ?, stock_name = ?, qty = ?, rate = ?, credit = ?, debit = ?
		WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("%w: error updating transaction %d: %v", models.ErrStorageFailure, tx.ID, err)
	}
	return checkAffected(res, tx.ID)
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: delete requires a transaction id", models.ErrMissingSelection)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+TableName+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: error deleting transaction %d: %v", models.ErrStorageFailure, id, err)
	}
	return checkAffected(res, id)
}

func (s *SQLiteStore) DeleteAll(ctx context.Context) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: error beginning database transaction: %v", models.ErrStorageFailure, err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM `+TableName); err != nil {
		return fmt.Errorf("%w: error deleting transactions: %v", models.ErrStorageFailure, err)
	}
	if _, err := dbTx.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = ?`, TableName); err != nil {
		return fmt.Errorf("%w: error resetting id sequence: %v", models.ErrStorageFailure, err)
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("%w: error committing delete: %v", models.ErrStorageFailure, err)
	}
	logger.FromContext(ctx).Info("Deleted all ledger transactions")
	return nil
}

func (s *SQLiteStore) ListAll(ctx context.Context) ([]models.Transaction, error) {
	return s.query(ctx, selectColumns+` ORDER BY id DESC`)
}

func (s *SQLiteStore) ListBySymbol(ctx context.Context, symbol string) ([]models.Transaction, error) {
	return s.query(ctx, selectColumns+` WHERE stock_name = ? ORDER BY txn_date ASC, id ASC`, symbol)
}

func (s *SQLiteStore) ListByType(ctx context.Context, txnType models.TxnType) ([]models.Transaction, error) {
	return s.query(ctx, selectColumns+` WHERE txn_type = ? ORDER BY txn_date ASC, id ASC`, string(txnType))
}

func (s *SQLiteStore) ListStockTrades(ctx context.Context) ([]models.Transaction, error) {
	return s.query(ctx, selectColumns+` WHERE txn_type IN (?, ?) ORDER BY txn_date ASC, id ASC`,
		string(models.TxnBuy), string(models.TxnSell))
}

func (s *SQLiteStore) ExecScript(ctx context.Context, statements []string) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w: error beginning database transaction: %v", models.ErrImportAborted, models.ErrStorageFailure, err)
	}
	defer dbTx.Rollback()

	for i, stmt := range statements {
		if _, err := dbTx.ExecContext(ctx, stmt); err != nil {
			logger.FromContext(ctx).Warn("Script import statement failed, rolling back", "statement", i+1, "error", err)
			return fmt.Errorf("%w: statement %d: %w", models.ErrImportAborted, i+1, err)
		}
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("%w: error committing import: %w", models.ErrImportAborted, err)
	}
	logger.FromContext(ctx).Info("Script import committed", "statements", len(statements))
	return nil
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: error querying transactions: %v", models.ErrStorageFailure, err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var (
			tx      models.Transaction
			dateStr string
			typeStr string
		)
		if err := rows.Scan(&tx.ID, &dateStr, &typeStr, &tx.Symbol, &tx.Quantity, &tx.Price, &tx.Credit, &tx.Debit); err != nil {
			return nil, fmt.Errorf("%w: error scanning transaction row: %v", models.ErrStorageFailure, err)
		}
		tx.Date, err = time.Parse(models.DateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("%w: transaction %d has unreadable date %q", models.ErrStorageFailure, tx.ID, dateStr)
		}
		tx.Type = models.TxnType(typeStr)
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating over transaction rows: %v", models.ErrStorageFailure, err)
	}
	return transactions, nil
}

func insertArgs(tx models.Transaction) []any {
	return []any{
		tx.Date.Format(models.DateLayout),
		string(tx.Type),
		tx.Symbol,
		tx.Quantity.String(),
		tx.Price.String(),
		tx.Credit.String(),
		tx.Debit.String(),
	}
}

func checkAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: error reading affected rows: %v", models.ErrStorageFailure, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", models.ErrNotFound, id)
	}
	return nil
}
