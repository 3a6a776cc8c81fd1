package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/username/equityflow/src/services"
)

// StatementHandler serves running-balance statements and consolidated balances.
type StatementHandler struct {
	ledgerService services.LedgerService
}

func NewStatementHandler(ledgerService services.LedgerService) *StatementHandler {
	return &StatementHandler{ledgerService: ledgerService}
}

func (h *StatementHandler) HandleSymbolStatement(w http.ResponseWriter, r *http.Request) {
	txs, err := h.ledgerService.SymbolStatement(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, txs)
}

func (h *StatementHandler) HandleCategoryStatement(w http.ResponseWriter, r *http.Request) {
	txs, err := h.ledgerService.CategoryStatement(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, txs)
}

func (h *StatementHandler) HandleSymbolBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.ledgerService.AllSymbolBalances(r.Context())
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, balances)
}

func (h *StatementHandler) HandleSymbolBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.ledgerService.SymbolBalance(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, balance)
}

func (h *StatementHandler) HandleCategoryBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.ledgerService.AllCategoryBalances(r.Context())
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, balances)
}

func (h *StatementHandler) HandleCategoryBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.ledgerService.CategoryBalance(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, balance)
}

func (h *StatementHandler) HandleAvailableBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.ledgerService.AvailableBalance(r.Context())
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, balance)
}
