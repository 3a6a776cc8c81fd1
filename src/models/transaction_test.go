package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, dd int) time.Time { return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC) }

func TestDeriveAmounts(t *testing.T) {
	amount := d("250.50")
	tests := []struct {
		txnType    TxnType
		wantCredit string
		wantDebit  string
	}{
		{TxnSell, "250.5", "0"},
		{TxnAddFunds, "250.5", "0"},
		{TxnRewards, "250.5", "0"},
		{TxnCredit, "250.5", "0"},
		{TxnBuy, "0", "250.5"},
		{TxnWithdrawal, "0", "250.5"},
		{TxnCharges, "0", "250.5"},
		{TxnDebit, "0", "250.5"},
	}
	for _, tt := range tests {
		t.Run(string(tt.txnType), func(t *testing.T) {
			credit, debit := DeriveAmounts(tt.txnType, amount)
			assert.True(t, d(tt.wantCredit).Equal(credit), "credit %s", credit)
			assert.True(t, d(tt.wantDebit).Equal(debit), "debit %s", debit)
		})
	}
}

func TestNewTransaction(t *testing.T) {
	t.Run("stock type keeps symbol", func(t *testing.T) {
		tx, err := NewTransaction(day(2024, 1, 2), TxnBuy, " ACME ", d("10"), d("100"), d("1000"))
		require.NoError(t, err)
		assert.Equal(t, "ACME", tx.Symbol)
		assert.True(t, tx.Debit.Equal(d("1000")))
		assert.True(t, tx.Credit.IsZero())
	})

	t.Run("non-stock type clears symbol", func(t *testing.T) {
		tx, err := NewTransaction(day(2024, 1, 2), TxnCharges, "ACME", decimal.Zero, decimal.Zero, d("15"))
		require.NoError(t, err)
		assert.Equal(t, "", tx.Symbol)
		assert.True(t, tx.Debit.Equal(d("15")))
	})

	t.Run("stock type without symbol", func(t *testing.T) {
		_, err := NewTransaction(day(2024, 1, 2), TxnSell, "  ", d("1"), d("1"), d("1"))
		assert.ErrorIs(t, err, ErrInvalidSymbol)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := NewTransaction(day(2024, 1, 2), TxnType("GIFT"), "", decimal.Zero, decimal.Zero, d("1"))
		assert.ErrorIs(t, err, ErrInvalidTransactionType)
		assert.Contains(t, err.Error(), "ADD_FUNDS")
	})

	t.Run("zero amount", func(t *testing.T) {
		_, err := NewTransaction(day(2024, 1, 2), TxnAddFunds, "", decimal.Zero, decimal.Zero, decimal.Zero)
		var numErr *NumberError
		require.True(t, errors.As(err, &numErr))
		assert.Equal(t, "Amount", numErr.Field)
	})

	t.Run("negative quantity", func(t *testing.T) {
		_, err := NewTransaction(day(2024, 1, 2), TxnBuy, "ACME", d("-1"), d("1"), d("1"))
		assert.ErrorIs(t, err, ErrInvalidNumber)
	})

	t.Run("missing date", func(t *testing.T) {
		_, err := NewTransaction(time.Time{}, TxnBuy, "ACME", d("1"), d("1"), d("1"))
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}

func TestTransactionSignedValues(t *testing.T) {
	sell := Transaction{Type: TxnSell, Quantity: d("4"), Credit: d("480"), Debit: decimal.Zero}
	buy := Transaction{Type: TxnBuy, Quantity: d("10"), Credit: decimal.Zero, Debit: d("1000")}

	assert.True(t, sell.SignedQuantity().Equal(d("-4")))
	assert.True(t, buy.SignedQuantity().Equal(d("10")))
	assert.True(t, sell.NetAmount().Equal(d("480")))
	assert.True(t, buy.NetAmount().Equal(d("-1000")))
}

func TestTransactionMarshalJSON(t *testing.T) {
	bal := d("-1000")
	tx := Transaction{ID: 7, Date: day(2024, 3, 9), Type: TxnBuy, Symbol: "ACME",
		Quantity: d("10"), Price: d("100"), Credit: decimal.Zero, Debit: d("1000"), RunningCashBalance: &bal}

	raw, err := json.Marshal(tx)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "2024-03-09", out["date"])
	assert.Equal(t, "BUY", out["txn_type"])
	assert.Equal(t, "-1000", out["balance"])
	assert.NotContains(t, out, "stock_balance")
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"date", fmt.Errorf("%w: 31/02/2024", ErrInvalidDate), KindInvalidDate},
		{"number", &NumberError{Field: "Qty", Value: "x"}, KindInvalidNumber},
		{"row wraps field", fmt.Errorf("%w: %w", ErrMalformedRow, ErrInvalidDate), KindMalformedRow},
		{"import wraps storage", fmt.Errorf("%w: %w", ErrImportAborted, ErrStorageFailure), KindImportAborted},
		{"storage", fmt.Errorf("%w: disk full", ErrStorageFailure), KindStorageFailure},
		{"selection", ErrMissingSelection, KindMissingSelection},
		{"not found", ErrNotFound, KindNotFound},
		{"empty view", ErrEmptyView, KindEmptyView},
		{"other", errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}
