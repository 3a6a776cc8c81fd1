package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/username/equityflow/src/config"
	"github.com/username/equityflow/src/services"
)

// NewRouter wires the ledger API onto a chi router.
func NewRouter(cfg *config.AppConfig, ledgerService services.LedgerService) http.Handler {
	transactionHandler := NewTransactionHandler(ledgerService)
	statementHandler := NewStatementHandler(ledgerService)
	interchangeHandler := NewInterchangeHandler(ledgerService, cfg.MaxUploadSizeBytes)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(ContextualLoggerMiddleware)
	r.Use(CORSMiddleware(cfg.AllowedOrigins))
	r.Use(RateLimitMiddleware(cfg.RateLimitInterval, cfg.RateLimitBurst))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		sendJSON(w, http.StatusOK, map[string]string{"message": "equityflow ledger API is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", transactionHandler.HandleListTransactions)
			r.Post("/", transactionHandler.HandleAddTransaction)
			r.Delete("/", transactionHandler.HandleDeleteAllTransactions)
			r.Put("/{id}", transactionHandler.HandleUpdateTransaction)
			r.Delete("/{id}", transactionHandler.HandleDeleteTransaction)
		})

		r.Get("/statements/symbol/{symbol}", statementHandler.HandleSymbolStatement)
		r.Get("/statements/category/{type}", statementHandler.HandleCategoryStatement)

		r.Route("/balances", func(r chi.Router) {
			r.Get("/symbols", statementHandler.HandleSymbolBalances)
			r.Get("/symbols/{symbol}", statementHandler.HandleSymbolBalance)
			r.Get("/categories", statementHandler.HandleCategoryBalances)
			r.Get("/categories/{type}", statementHandler.HandleCategoryBalance)
			r.Get("/available", statementHandler.HandleAvailableBalance)
		})

		r.Get("/export/script", interchangeHandler.HandleExportScript)
		r.Post("/import/script", interchangeHandler.HandleImportScript)
		r.Get("/export/csv/{view}", interchangeHandler.HandleExportCSV)
		r.Post("/import/csv", interchangeHandler.HandleImportCSV)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		sendJSONError(w, "route not found", http.StatusNotFound)
	})
	return r
}
