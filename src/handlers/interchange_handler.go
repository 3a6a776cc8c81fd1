package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/username/equityflow/src/logger"
	"github.com/username/equityflow/src/models"
	"github.com/username/equityflow/src/security/validation"
	"github.com/username/equityflow/src/services"
)

// InterchangeHandler moves the ledger in and out as SQL scripts and delimited text.
type InterchangeHandler struct {
	ledgerService      services.LedgerService
	maxUploadSizeBytes int64
}

func NewInterchangeHandler(ledgerService services.LedgerService, maxUploadSizeBytes int64) *InterchangeHandler {
	return &InterchangeHandler{ledgerService: ledgerService, maxUploadSizeBytes: maxUploadSizeBytes}
}

func (h *InterchangeHandler) HandleExportScript(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.ledgerService.ExportScript(r.Context(), &buf); err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendAttachment(w, r, "application/sql", "ledger.sql", buf.Bytes())
}

func (h *InterchangeHandler) HandleImportScript(w http.ResponseWriter, r *http.Request) {
	file, cleanup, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer cleanup()
	if err := h.ledgerService.ImportScript(r.Context(), file); err != nil {
		sendServiceError(w, r, err)
		return
	}

	txs, err := h.ledgerService.ListTransactions(r.Context())
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("Ledger restored from script", "records", len(txs))
	sendJSON(w, http.StatusOK, map[string]int{"records": len(txs)})
}

func (h *InterchangeHandler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	view, err := models.ParseProjection(chi.URLParam(r, "view"))
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	req := services.CSVExportRequest{
		View:   view,
		Symbol: r.URL.Query().Get("symbol"),
		Type:   r.URL.Query().Get("type"),
	}

	var buf bytes.Buffer
	if err := h.ledgerService.ExportCSV(r.Context(), &buf, req); err != nil {
		sendServiceError(w, r, err)
		return
	}
	sendAttachment(w, r, "text/csv", string(view)+".csv", buf.Bytes())
}

func (h *InterchangeHandler) HandleImportCSV(w http.ResponseWriter, r *http.Request) {
	file, cleanup, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer cleanup()
	result, err := h.ledgerService.ImportCSV(r.Context(), file)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("Delimited text imported",
		"imported", result.Imported, "skipped", len(result.Skipped))
	sendJSON(w, http.StatusOK, result)
}

// readUpload accepts either a multipart form with a "file" field or a raw
// request body. Both are size-limited and content-sniffed before use. The
// returned cleanup must be called once the file has been consumed.
func (h *InterchangeHandler) readUpload(w http.ResponseWriter, r *http.Request) (io.ReadSeeker, func(), bool) {
	ctxLogger := logger.FromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSizeBytes)

	var file io.ReadSeeker
	cleanup := func() {}
	declaredType := r.Header.Get("Content-Type")

	mediaType, _, _ := mime.ParseMediaType(declaredType)
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(h.maxUploadSizeBytes); err != nil {
			ctxLogger.Warn("Error parsing multipart form", "error", err)
			sendJSONError(w, fmt.Sprintf("file too large or invalid form (max %d bytes)", h.maxUploadSizeBytes), http.StatusBadRequest)
			return nil, nil, false
		}
		formFile, header, err := r.FormFile("file")
		if err != nil {
			ctxLogger.Warn("Error retrieving file from form", "error", err)
			sendJSONError(w, "error retrieving the file: 'file' field missing or invalid", http.StatusBadRequest)
			return nil, nil, false
		}
		if header.Size > h.maxUploadSizeBytes {
			formFile.Close()
			sendJSONError(w, fmt.Sprintf("file too large (max %d bytes)", h.maxUploadSizeBytes), http.StatusRequestEntityTooLarge)
			return nil, nil, false
		}
		cleanup = func() {
			formFile.Close()
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}
		file = formFile
		declaredType = header.Header.Get("Content-Type")
		ctxLogger.Info("Upload received", "filename", header.Filename, "size", header.Size)
	} else {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				sendJSONError(w, fmt.Sprintf("file too large (max %d bytes)", h.maxUploadSizeBytes), http.StatusRequestEntityTooLarge)
				return nil, nil, false
			}
			ctxLogger.Warn("Error reading request body", "error", err)
			sendJSONError(w, "error reading request body", http.StatusBadRequest)
			return nil, nil, false
		}
		file = bytes.NewReader(body)
	}

	if err := validation.ValidateClientContentType(declaredType); err != nil {
		cleanup()
		sendJSONError(w, err.Error(), http.StatusUnsupportedMediaType)
		return nil, nil, false
	}
	if _, err := validation.ValidateFileContentByMagicBytes(file); err != nil {
		ctxLogger.Warn("Upload failed content validation", "error", err)
		cleanup()
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return nil, nil, false
	}
	return file, cleanup, true
}

func sendAttachment(w http.ResponseWriter, r *http.Request, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logger.FromContext(r.Context()).Error("Error writing export", "filename", filename, "error", err)
	}
}
