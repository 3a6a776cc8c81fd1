package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the storage and API date format.
const DateLayout = "2006-01-02"

// DisplayDateLayout is used by the delimited-text projections.
const DisplayDateLayout = "02/01/2006"

// TxnType is the kind of ledger event.
type TxnType string

const (
	TxnBuy        TxnType = "BUY"
	TxnSell       TxnType = "SELL"
	TxnCharges    TxnType = "CHARGES"
	TxnAddFunds   TxnType = "ADD_FUNDS"
	TxnWithdrawal TxnType = "WITHDRAWAL"
	TxnRewards    TxnType = "REWARDS"
	TxnCredit     TxnType = "CREDIT"
	TxnDebit      TxnType = "DEBIT"
)

var validTxnTypes = []TxnType{
	TxnBuy, TxnSell, TxnCharges, TxnAddFunds, TxnWithdrawal, TxnRewards, TxnCredit, TxnDebit,
}

// ValidTxnTypes returns the fixed enumeration in declaration order.
func ValidTxnTypes() []TxnType {
	out := make([]TxnType, len(validTxnTypes))
	copy(out, validTxnTypes)
	return out
}

// ValidTxnTypeNames joins the enumeration for error messages.
func ValidTxnTypeNames() string {
	names := make([]string, len(validTxnTypes))
	for i, t := range validTxnTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func (t TxnType) IsValid() bool {
	for _, v := range validTxnTypes {
		if t == v {
			return true
		}
	}
	return false
}

// IsStock reports whether the type carries a stock leg (BUY or SELL).
func (t TxnType) IsStock() bool { return t == TxnBuy || t == TxnSell }

// IsCredit reports whether the type puts cash into the account.
func (t TxnType) IsCredit() bool {
	switch t {
	case TxnSell, TxnAddFunds, TxnRewards, TxnCredit:
		return true
	}
	return false
}

// IsDebit reports whether the type takes cash out of the account.
func (t TxnType) IsDebit() bool {
	switch t {
	case TxnBuy, TxnWithdrawal, TxnCharges, TxnDebit:
		return true
	}
	return false
}

// Transaction is one ledger event. RunningCashBalance and RunningStockQuantity are
// filled in by statement queries and are never persisted.
type Transaction struct {
	ID       int64           `json:"id"`
	Date     time.Time       `json:"date"`
	Type     TxnType         `json:"txn_type"`
	Symbol   string          `json:"stock_name"`
	Quantity decimal.Decimal `json:"qty"`
	Price    decimal.Decimal `json:"rate"`
	Credit   decimal.Decimal `json:"credit"`
	Debit    decimal.Decimal `json:"debit"`

	RunningCashBalance   *decimal.Decimal `json:"balance,omitempty"`
	RunningStockQuantity *decimal.Decimal `json:"stock_balance,omitempty"`
}

// MarshalJSON renders the date without a time component.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type alias Transaction
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{alias: alias(t), Date: t.Date.Format(DateLayout)})
}

// DeriveAmounts splits an unsigned amount into credit and debit according to the type.
func DeriveAmounts(t TxnType, amount decimal.Decimal) (credit, debit decimal.Decimal) {
	credit, debit = decimal.Zero, decimal.Zero
	switch {
	case t.IsCredit():
		credit = amount
	case t.IsDebit():
		debit = amount
	}
	return credit, debit
}

// NewTransaction builds a record from a type and an unsigned amount, enforcing the
// record invariants. Non-stock types always get an empty symbol.
func NewTransaction(date time.Time, t TxnType, symbol string, qty, price, amount decimal.Decimal) (Transaction, error) {
	if !t.IsValid() {
		return Transaction{}, fmt.Errorf("%w: %q, valid types are %s", ErrInvalidTransactionType, t, ValidTxnTypeNames())
	}
	if amount.IsZero() {
		return Transaction{}, &NumberError{Field: "Amount", Value: amount.String(), Reason: "must be greater than zero"}
	}
	credit, debit := DeriveAmounts(t, amount)
	tx := Transaction{
		Date:     date,
		Type:     t,
		Symbol:   symbol,
		Quantity: qty,
		Price:    price,
		Credit:   credit,
		Debit:    debit,
	}
	tx.Normalize()
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Normalize trims the symbol and clears it for non-stock types.
func (t *Transaction) Normalize() {
	t.Symbol = strings.TrimSpace(t.Symbol)
	if !t.Type.IsStock() {
		t.Symbol = ""
	}
}

// Validate checks the invariants every persisted record must satisfy.
// Credit and debit are not cross-checked against the type, so rows imported as
// given keep their amounts.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidDate)
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: %q, valid types are %s", ErrInvalidTransactionType, t.Type, ValidTxnTypeNames())
	}
	if t.Type.IsStock() && t.Symbol == "" {
		return fmt.Errorf("%w: stock name is required for %s", ErrInvalidSymbol, t.Type)
	}
	if !t.Type.IsStock() && t.Symbol != "" {
		return fmt.Errorf("%w: stock name must be empty for %s", ErrInvalidSymbol, t.Type)
	}
	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"Quantity", t.Quantity},
		{"Rate", t.Price},
		{"Credit", t.Credit},
		{"Debit", t.Debit},
	} {
		if f.value.IsNegative() {
			return &NumberError{Field: f.name, Value: f.value.String(), Reason: "must not be negative"}
		}
	}
	return nil
}

// SignedQuantity is the quantity as it moves the holding: negative for SELL.
func (t Transaction) SignedQuantity() decimal.Decimal {
	if t.Type == TxnSell {
		return t.Quantity.Neg()
	}
	return t.Quantity
}

// NetAmount is credit minus debit.
func (t Transaction) NetAmount() decimal.Decimal {
	return t.Credit.Sub(t.Debit)
}
