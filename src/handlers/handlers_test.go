package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/equityflow/src/config"
	"github.com/username/equityflow/src/models"
	"github.com/username/equityflow/src/processors"
	"github.com/username/equityflow/src/services"
	"github.com/username/equityflow/src/store"
)

func newTestConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	return &config.AppConfig{
		DatabasePath:       filepath.Join(t.TempDir(), "ledger.db"),
		MaxUploadSizeBytes: 1024 * 1024,
		RateLimitInterval:  time.Millisecond,
		RateLimitBurst:     1000,
		AllowedOrigins:     []string{"http://localhost:3000"},
		Currency:           "USD",
	}
}

func newTestRouter(t *testing.T, cfg *config.AppConfig) http.Handler {
	t.Helper()
	s, err := store.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	svc := services.NewLedgerService(s, processors.NewStatementProcessor(), processors.NewBalanceProcessor(),
		cache.New(time.Minute, time.Minute), cfg.Currency)
	return NewRouter(cfg, svc)
}

func doRequest(t *testing.T, h http.Handler, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func postEntry(t *testing.T, h http.Handler, entry map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(entry)
	require.NoError(t, err)
	return doRequest(t, h, http.MethodPost, "/api/transactions", body, "application/json")
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp
}

func TestTransactionLifecycle(t *testing.T) {
	h := newTestRouter(t, newTestConfig(t))

	rr := postEntry(t, h, map[string]string{
		"date": "01/02/2024", "txn_type": "BUY", "stock_name": "ACME", "qty": "10", "rate": "100", "amount": "1000",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	var created map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, float64(1), created["id"])
	assert.Equal(t, "2024-02-01", created["date"])
	assert.Equal(t, "1000", created["debit"])

	body, _ := json.Marshal(map[string]string{
		"date": "01/02/2024", "txn_type": "BUY", "stock_name": "ACME", "qty": "12", "rate": "100", "amount": "1200",
	})
	rr = doRequest(t, h, http.MethodPut, "/api/transactions/1", body, "application/json")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doRequest(t, h, http.MethodGet, "/api/transactions", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "12", listed[0]["qty"])

	rr = doRequest(t, h, http.MethodDelete, "/api/transactions/1", nil, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = doRequest(t, h, http.MethodDelete, "/api/transactions/1", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, models.KindNotFound, decodeError(t, rr).Kind)
}

func TestAddTransaction_Rejections(t *testing.T) {
	h := newTestRouter(t, newTestConfig(t))

	tests := []struct {
		name string
		body string
		kind models.ErrorKind
	}{
		{"bad date", `{"date":"31/13/2024","txn_type":"ADD_FUNDS","amount":"10"}`, models.KindInvalidDate},
		{"bad type", `{"date":"01/01/2024","txn_type":"GIFT","amount":"10"}`, models.KindInvalidTransactionType},
		{"bad number", `{"date":"01/01/2024","txn_type":"ADD_FUNDS","amount":"ten"}`, models.KindInvalidNumber},
		{"malformed json", `{"date":`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, h, http.MethodPost, "/api/transactions", []byte(tt.body), "application/json")
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.kind, decodeError(t, rr).Kind)
		})
	}

	rr := doRequest(t, h, http.MethodGet, "/api/transactions", nil, "")
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestTransactionIDMustBePositive(t *testing.T) {
	h := newTestRouter(t, newTestConfig(t))

	for _, id := range []string{"0", "-3", "abc"} {
		rr := doRequest(t, h, http.MethodDelete, "/api/transactions/"+id, nil, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, id)
		assert.Equal(t, models.KindMissingSelection, decodeError(t, rr).Kind, id)
	}
}

func TestStatementsAndBalances(t *testing.T) {
	h := newTestRouter(t, newTestConfig(t))
	require.Equal(t, http.StatusCreated, postEntry(t, h, map[string]string{
		"date": "01/01/2024", "txn_type": "ADD_FUNDS", "amount": "5000",
	}).Code)
	require.Equal(t, http.StatusCreated, postEntry(t, h, map[string]string{
		"date": "02/01/2024", "txn_type": "BUY", "stock_name": "ACME", "qty": "10", "rate": "100", "amount": "1000",
	}).Code)

	rr := doRequest(t, h, http.MethodGet, "/api/statements/symbol/ACME", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var statement []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &statement))
	require.Len(t, statement, 1)
	assert.Equal(t, "-1000", statement[0]["balance"])
	assert.Equal(t, "10", statement[0]["stock_balance"])

	rr = doRequest(t, h, http.MethodGet, "/api/balances/symbols/ACME", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"stock_name":"ACME","stock_balance":"10","balance":"-1000"}`, rr.Body.String())

	rr = doRequest(t, h, http.MethodGet, "/api/balances/available", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var available map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &available))
	assert.Equal(t, "4000", available["balance"])
	assert.Equal(t, "USD", available["currency"])

	rr = doRequest(t, h, http.MethodGet, "/api/statements/category/NOPE", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, models.KindInvalidTransactionType, decodeError(t, rr).Kind)
}

func TestExportCSV(t *testing.T) {
	h := newTestRouter(t, newTestConfig(t))

	rr := doRequest(t, h, http.MethodGet, "/api/export/csv/balances", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, models.KindEmptyView, decodeError(t, rr).Kind)

	rr = doRequest(t, h, http.MethodGet, "/api/export/csv/everything", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, models.KindInvalidView, decodeError(t, rr).Kind)

	require.Equal(t, http.StatusCreated, postEntry(t, h, map[string]string{
		"date": "02/01/2024", "txn_type": "BUY", "stock_name": "ACME", "qty": "10", "rate": "100", "amount": "1000",
	}).Code)
	rr = doRequest(t, h, http.MethodGet, "/api/export/csv/balances", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "balances.csv")
	assert.Equal(t, "Stock_Name,Stock_Balance,Balance\nACME,10,-1000\n", rr.Body.String())
}

const importCSV = `Date,Txn_Type,Stock_Name,Qty,Rate,Credit,Debit
01/01/2024,ADD_FUNDS,,0,0,5000,0
02/01/2024,BUY,ACME,10,100,0,1000
garbage
`

func TestImportCSV_RawAndMultipart(t *testing.T) {
	h := newTestRouter(t, newTestConfig(t))

	rr := doRequest(t, h, http.MethodPost, "/api/import/csv", []byte(importCSV), "text/csv")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var result services.CSVImportResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Imported)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 4, result.Skipped[0].Line)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "ledger.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(importCSV))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	rr = doRequest(t, h, http.MethodPost, "/api/import/csv", body.Bytes(), mw.FormDataContentType())
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doRequest(t, h, http.MethodGet, "/api/transactions", nil, "")
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	assert.Len(t, listed, 4)
}

func TestImport_RejectsBadUploads(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.MaxUploadSizeBytes = 64
	h := newTestRouter(t, cfg)

	rr := doRequest(t, h, http.MethodPost, "/api/import/csv", []byte{0x00, 0x01, 0x02, 'a'}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, h, http.MethodPost, "/api/import/csv", []byte("a,b\n"), "application/pdf")
	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)

	rr = doRequest(t, h, http.MethodPost, "/api/import/script", []byte(strings.Repeat("-- x\n", 100)), "application/sql")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestScriptExportImportRoundTrip(t *testing.T) {
	h := newTestRouter(t, newTestConfig(t))
	require.Equal(t, http.StatusCreated, postEntry(t, h, map[string]string{
		"date": "01/01/2024", "txn_type": "ADD_FUNDS", "amount": "5000",
	}).Code)
	require.Equal(t, http.StatusCreated, postEntry(t, h, map[string]string{
		"date": "02/01/2024", "txn_type": "SELL", "stock_name": "ACME", "qty": "2", "rate": "50.5", "amount": "101",
	}).Code)

	rr := doRequest(t, h, http.MethodGet, "/api/export/script", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/sql", rr.Header().Get("Content-Type"))
	script := rr.Body.Bytes()

	before := doRequest(t, h, http.MethodGet, "/api/transactions", nil, "").Body.String()
	require.Equal(t, http.StatusNoContent, doRequest(t, h, http.MethodDelete, "/api/transactions", nil, "").Code)

	rr = doRequest(t, h, http.MethodPost, "/api/import/script", script, "application/sql")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"records":2}`, rr.Body.String())

	after := doRequest(t, h, http.MethodGet, "/api/transactions", nil, "").Body.String()
	assert.JSONEq(t, before, after)

	rr = doRequest(t, h, http.MethodPost, "/api/import/script", []byte("DELETE FROM nowhere;\n"), "text/plain")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, models.KindImportAborted, decodeError(t, rr).Kind)
	assert.JSONEq(t, before, doRequest(t, h, http.MethodGet, "/api/transactions", nil, "").Body.String())
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.RateLimitInterval = time.Hour
	cfg.RateLimitBurst = 1
	h := newTestRouter(t, cfg)

	assert.Equal(t, http.StatusOK, doRequest(t, h, http.MethodGet, "/", nil, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(t, h, http.MethodGet, "/", nil, "").Code)
}

func TestCORSMiddleware(t *testing.T) {
	h := CORSMiddleware([]string{"http://localhost:3000/"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/transactions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestContextualLoggerMiddleware(t *testing.T) {
	var seen string
	h := ContextualLoggerMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = RequestIDFromContext(r.Context())
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))
}

func TestUnknownRoute(t *testing.T) {
	h := newTestRouter(t, newTestConfig(t))
	rr := doRequest(t, h, http.MethodGet, "/api/nothing-here", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "route not found", decodeError(t, rr).Error)
}
