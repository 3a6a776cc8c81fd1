package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDate            = errors.New("invalid date")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidNumber          = errors.New("invalid number")
	ErrInvalidSymbol          = errors.New("invalid stock name")
	ErrMissingSelection       = errors.New("no transaction selected")
	ErrNotFound               = errors.New("transaction not found")
	ErrStorageFailure         = errors.New("storage failure")
	ErrMalformedRow           = errors.New("malformed row")
	ErrImportAborted          = errors.New("import aborted")
	ErrEmptyView              = errors.New("no data to export")
	ErrInvalidView            = errors.New("unknown export view")
)

// NumberError reports a numeric field that could not be accepted.
type NumberError struct {
	Field  string
	Value  string
	Reason string
}

func (e *NumberError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "not a valid number"
	}
	return fmt.Sprintf("invalid number for %s: %q %s", e.Field, e.Value, reason)
}

// Is lets errors.Is(err, ErrInvalidNumber) match any NumberError.
func (e *NumberError) Is(target error) bool {
	return target == ErrInvalidNumber
}

// ErrorKind names a failure class so callers can react without reading messages.
type ErrorKind string

const (
	KindInvalidDate            ErrorKind = "invalid_date"
	KindInvalidTransactionType ErrorKind = "invalid_transaction_type"
	KindInvalidNumber          ErrorKind = "invalid_number"
	KindInvalidSymbol          ErrorKind = "invalid_stock_name"
	KindMissingSelection       ErrorKind = "missing_selection"
	KindNotFound               ErrorKind = "not_found"
	KindStorageFailure         ErrorKind = "storage_failure"
	KindMalformedRow           ErrorKind = "malformed_row"
	KindImportAborted          ErrorKind = "import_aborted"
	KindEmptyView              ErrorKind = "empty_view"
	KindInvalidView            ErrorKind = "invalid_view"
	KindInternal               ErrorKind = "internal"
)

// Wrapping kinds are checked first: a malformed row wraps the field error that caused it.
var kindOrder = []struct {
	err  error
	kind ErrorKind
}{
	{ErrImportAborted, KindImportAborted},
	{ErrMalformedRow, KindMalformedRow},
	{ErrInvalidDate, KindInvalidDate},
	{ErrInvalidTransactionType, KindInvalidTransactionType},
	{ErrInvalidNumber, KindInvalidNumber},
	{ErrInvalidSymbol, KindInvalidSymbol},
	{ErrMissingSelection, KindMissingSelection},
	{ErrNotFound, KindNotFound},
	{ErrEmptyView, KindEmptyView},
	{ErrInvalidView, KindInvalidView},
	{ErrStorageFailure, KindStorageFailure},
}

// Kind classifies err. A nil error has an empty kind.
func Kind(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, k := range kindOrder {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
