package parsers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/equityflow/src/models"
)

func TestBuildTransaction(t *testing.T) {
	tx, err := BuildTransaction(TransactionFields{
		Date: "3/1/24", Type: "sell", Symbol: " ACME ", Quantity: "4", Rate: "120", Amount: "480",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TxnSell, tx.Type)
	assert.Equal(t, "ACME", tx.Symbol)
	assert.True(t, tx.Credit.Equal(decimal.NewFromInt(480)))
	assert.True(t, tx.Debit.IsZero())
	assert.Zero(t, tx.ID)
}

func TestBuildTransaction_CashType(t *testing.T) {
	tx, err := BuildTransaction(TransactionFields{
		Date: "2024/01/01", Type: "ADD_FUNDS", Symbol: "ignored", Amount: "5000",
	})
	require.NoError(t, err)
	assert.Equal(t, "", tx.Symbol)
	assert.True(t, tx.Quantity.IsZero())
	assert.True(t, tx.Credit.Equal(decimal.NewFromInt(5000)))
}

func TestBuildTransaction_Errors(t *testing.T) {
	base := TransactionFields{Date: "01/01/2024", Type: "BUY", Symbol: "ACME", Quantity: "1", Rate: "1", Amount: "1"}

	tests := []struct {
		name   string
		mutate func(f *TransactionFields)
		want   error
	}{
		{"date", func(f *TransactionFields) { f.Date = "yesterday" }, models.ErrInvalidDate},
		{"type", func(f *TransactionFields) { f.Type = "" }, models.ErrInvalidTransactionType},
		{"quantity", func(f *TransactionFields) { f.Quantity = "1.2.3" }, models.ErrInvalidNumber},
		{"amount", func(f *TransactionFields) { f.Amount = "" }, models.ErrInvalidNumber},
		{"symbol", func(f *TransactionFields) { f.Symbol = "" }, models.ErrInvalidSymbol},
		{"markup", func(f *TransactionFields) { f.Symbol = "<script>x</script>" }, models.ErrInvalidSymbol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base
			tt.mutate(&f)
			_, err := BuildTransaction(f)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
