package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/equityflow/src/config"
	"github.com/username/equityflow/src/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	cfg := &config.AppConfig{DatabasePath: filepath.Join(t.TempDir(), "ledger.db")}
	s, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func buy(date time.Time, symbol string, qty, price int64) models.Transaction {
	return models.Transaction{Date: date, Type: models.TxnBuy, Symbol: symbol,
		Quantity: decimal.NewFromInt(qty), Price: decimal.NewFromInt(price),
		Credit: decimal.Zero, Debit: decimal.NewFromInt(qty * price)}
}

func cash(date time.Time, t models.TxnType, amount string) models.Transaction {
	credit, debit := models.DeriveAmounts(t, decimal.RequireFromString(amount))
	return models.Transaction{Date: date, Type: t, Quantity: decimal.Zero, Price: decimal.Zero, Credit: credit, Debit: debit}
}

func TestInsertAndListAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id1, err := s.Insert(ctx, buy(day(2024, 1, 2), "ACME", 10, 100))
	require.NoError(t, err)
	id2, err := s.Insert(ctx, cash(day(2024, 1, 1), models.TxnAddFunds, "5000.25"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id1)
	assert.Equal(t, int64(2), id2)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, id2, all[0].ID, "newest id first")
	assert.True(t, all[0].Credit.Equal(decimal.RequireFromString("5000.25")))
	assert.Equal(t, day(2024, 1, 1), all[0].Date)
	assert.Equal(t, "ACME", all[1].Symbol)
	assert.Nil(t, all[1].RunningCashBalance)
}

func TestInsertMany_AllOrNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertMany(ctx, []models.Transaction{
		buy(day(2024, 1, 2), "ACME", 1, 1),
		buy(day(2024, 1, 3), "ACME", 2, 1),
	}))

	// The trigger rejects the second record of the batch; the first must not survive.
	_, err := s.db.Exec(`CREATE TRIGGER reject_bad BEFORE INSERT ON ledger_transactions
		WHEN NEW.txn_date = '2024-01-04' AND NEW.stock_name = 'ACME'
		BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	require.NoError(t, err)

	batch := []models.Transaction{buy(day(2024, 1, 4), "INFY", 1, 1), buy(day(2024, 1, 4), "ACME", 1, 1)}
	err = s.InsertMany(ctx, batch)
	require.ErrorIs(t, err, models.ErrStorageFailure)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, buy(day(2024, 1, 2), "ACME", 10, 100))
	require.NoError(t, err)

	replacement := cash(day(2024, 2, 1), models.TxnCharges, "15")
	replacement.ID = id
	require.NoError(t, s.Update(ctx, replacement))

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, id, all[0].ID)
	assert.Equal(t, models.TxnCharges, all[0].Type)
	assert.Equal(t, "", all[0].Symbol)
	assert.True(t, all[0].Debit.Equal(decimal.NewFromInt(15)))

	replacement.ID = 0
	assert.ErrorIs(t, s.Update(ctx, replacement), models.ErrMissingSelection)
	replacement.ID = 99
	assert.ErrorIs(t, s.Update(ctx, replacement), models.ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, buy(day(2024, 1, 2), "ACME", 10, 100))
	require.NoError(t, err)

	assert.ErrorIs(t, s.Delete(ctx, 0), models.ErrMissingSelection)
	assert.ErrorIs(t, s.Delete(ctx, id+1), models.ErrNotFound)
	require.NoError(t, s.Delete(ctx, id))

	// Single deletes never free an id for reuse.
	next, err := s.Insert(ctx, buy(day(2024, 1, 2), "ACME", 1, 1))
	require.NoError(t, err)
	assert.Equal(t, id+1, next)
}

func TestDeleteAll_ResetsSequence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.Insert(ctx, buy(day(2024, 1, i+1), "ACME", 1, 1))
		require.NoError(t, err)
	}
	require.NoError(t, s.DeleteAll(ctx))

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	id, err := s.Insert(ctx, buy(day(2024, 2, 1), "ACME", 1, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestFilteredLists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertMany(ctx, []models.Transaction{
		buy(day(2024, 1, 3), "ACME", 1, 1),
		buy(day(2024, 1, 2), "INFY", 1, 1),
		cash(day(2024, 1, 1), models.TxnAddFunds, "100"),
		buy(day(2024, 1, 1), "ACME", 2, 1),
		cash(day(2024, 1, 5), models.TxnCharges, "3"),
	}))

	acme, err := s.ListBySymbol(ctx, "ACME")
	require.NoError(t, err)
	require.Len(t, acme, 2)
	assert.Equal(t, day(2024, 1, 1), acme[0].Date, "ordered by date")

	funds, err := s.ListByType(ctx, models.TxnAddFunds)
	require.NoError(t, err)
	require.Len(t, funds, 1)

	trades, err := s.ListStockTrades(ctx)
	require.NoError(t, err)
	assert.Len(t, trades, 3)
	for _, tx := range trades {
		assert.True(t, tx.Type.IsStock())
	}
}

func TestExecScript_RollsBackOnFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, buy(day(2024, 1, 2), "ACME", 10, 100))
	require.NoError(t, err)

	err = s.ExecScript(ctx, []string{
		`INSERT INTO ledger_transactions VALUES (10, '2024-01-03', 'SELL', 'ACME', 4, 120, 480, 0);`,
		`INSERT INTO missing_table VALUES (1);`,
	})
	require.ErrorIs(t, err, models.ErrImportAborted)
	assert.Equal(t, models.KindImportAborted, models.Kind(err))
	assert.Contains(t, err.Error(), "statement 2")

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.TxnBuy, all[0].Type)
}

func TestExecScript_Commits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ExecScript(ctx, []string{
		`INSERT INTO ledger_transactions VALUES (7, '2024-01-03', 'SELL', 'ACME', 4, 120.5, 482, 0);`,
	}))

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(7), all[0].ID)
	assert.True(t, all[0].Price.Equal(decimal.RequireFromString("120.5")))
	assert.True(t, all[0].Credit.Equal(decimal.NewFromInt(482)))
}

func TestOpen_NilConfig(t *testing.T) {
	_, err := Open(nil)
	assert.ErrorIs(t, err, models.ErrStorageFailure)
}
