package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/username/equityflow/src/logger"
	"github.com/username/equityflow/src/models"
	"github.com/username/equityflow/src/security/validation"
)

type contextKey string

type errorResponse struct {
	Error string           `json:"error"`
	Kind  models.ErrorKind `json:"kind,omitempty"`
}

func sendJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.L.Error("Error encoding JSON response", "error", err)
	}
}

func sendJSONError(w http.ResponseWriter, message string, statusCode int) {
	logger.L.Warn("Sending JSON error to client", "message", message, "statusCode", statusCode)
	sendJSON(w, statusCode, errorResponse{Error: message})
}

// statusForKind maps a failure class onto an HTTP status.
func statusForKind(kind models.ErrorKind) int {
	switch kind {
	case models.KindInvalidDate, models.KindInvalidTransactionType, models.KindInvalidNumber,
		models.KindInvalidSymbol, models.KindMissingSelection, models.KindMalformedRow, models.KindInvalidView:
		return http.StatusBadRequest
	case models.KindNotFound, models.KindEmptyView:
		return http.StatusNotFound
	case models.KindImportAborted:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// sendServiceError writes err with its kind. Internal details of storage
// failures are logged, not returned.
func sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctxLogger := logger.FromContext(r.Context())
	if errors.Is(err, validation.ErrValidationFailed) {
		ctxLogger.Warn("Request rejected by validation", "path", r.URL.Path, "error", err)
		sendJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	kind := models.Kind(err)
	status := statusForKind(kind)
	message := err.Error()
	if status == http.StatusInternalServerError {
		ctxLogger.Error("Ledger operation failed", "path", r.URL.Path, "kind", kind, "error", err)
		message = "ledger operation failed"
	} else {
		ctxLogger.Warn("Ledger operation rejected", "path", r.URL.Path, "kind", kind, "error", err)
	}
	sendJSON(w, status, errorResponse{Error: message, Kind: kind})
}
