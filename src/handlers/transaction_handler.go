package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/username/equityflow/src/logger"
	"github.com/username/equityflow/src/models"
	"github.com/username/equityflow/src/parsers"
	"github.com/username/equityflow/src/services"
)

// maxEntryBodyBytes bounds the JSON body of a single entry.
const maxEntryBodyBytes = 64 * 1024

type TransactionHandler struct {
	ledgerService services.LedgerService
}

func NewTransactionHandler(ledgerService services.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService}
}

func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.ledgerService.ListTransactions(r.Context())
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, txs)
}

func (h *TransactionHandler) HandleAddTransaction(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}
	tx, err := h.ledgerService.AddTransaction(r.Context(), fields)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusCreated, tx)
}

func (h *TransactionHandler) HandleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := transactionIDParam(r)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}
	tx, err := h.ledgerService.UpdateTransaction(r.Context(), id, fields)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, tx)
}

func (h *TransactionHandler) HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := transactionIDParam(r)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	if err := h.ledgerService.DeleteTransaction(r.Context(), id); err != nil {
		sendServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TransactionHandler) HandleDeleteAllTransactions(w http.ResponseWriter, r *http.Request) {
	if err := h.ledgerService.DeleteAllTransactions(r.Context()); err != nil {
		sendServiceError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("All transactions deleted via API")
	w.WriteHeader(http.StatusNoContent)
}

func decodeFields(w http.ResponseWriter, r *http.Request) (parsers.TransactionFields, bool) {
	var fields parsers.TransactionFields
	r.Body = http.MaxBytesReader(w, r.Body, maxEntryBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		logger.FromContext(r.Context()).Warn("Invalid transaction payload", "error", err)
		sendJSONError(w, "invalid request payload", http.StatusBadRequest)
		return fields, false
	}
	return fields, true
}

func transactionIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a transaction id", models.ErrMissingSelection, raw)
	}
	return id, nil
}
