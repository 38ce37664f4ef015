package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/oraculum/internal/interfaces"
)

const maxUploadBytes = 32 << 20 // 32 MB

// DocumentHandler handles knowledge-base document HTTP requests
type DocumentHandler struct {
	documentService interfaces.DocumentService
	ingestService   interfaces.IngestService
	logger          arbor.ILogger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(
	documentService interfaces.DocumentService,
	ingestService interfaces.IngestService,
	logger arbor.ILogger,
) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		ingestService:   ingestService,
		logger:          logger,
	}
}

// UploadHandler handles POST /api/documents/upload requests with a
// multipart "file" field. PDF and markdown/text files are accepted.
func (h *DocumentHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "File field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	filename := header.Filename
	ext := strings.ToLower(filepath.Ext(filename))

	var result *interfaces.IngestResult
	switch ext {
	case ".pdf":
		result, err = h.ingestService.IngestPDF(r.Context(), filename, data)
	case ".md", ".markdown", ".txt":
		result, err = h.ingestService.IngestMarkdown(r.Context(), filename, data)
	default:
		h.writeError(w, http.StatusBadRequest, "Unsupported file type: "+ext)
		return
	}

	if err != nil {
		h.logger.Error().Err(err).Str("filename", filename).Msg("Document ingestion failed")
		h.writeError(w, http.StatusInternalServerError, "Failed to ingest document: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":          true,
		"document_id":      result.DocumentID,
		"filename":         result.Filename,
		"processed_chunks": result.ProcessedChunks,
	})
}

// ListHandler handles GET /api/documents requests
func (h *DocumentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	opts := &interfaces.ListOptions{
		SourceType: r.URL.Query().Get("source_type"),
		Limit:      50,
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			opts.Limit = n
		}
	}
	if offset := r.URL.Query().Get("offset"); offset != "" {
		if n, err := strconv.Atoi(offset); err == nil && n >= 0 {
			opts.Offset = n
		}
	}

	docs, err := h.documentService.List(r.Context(), opts)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list documents")
		h.writeError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   true,
		"documents": docs,
		"count":     len(docs),
	})
}

// DeleteHandler handles DELETE /api/documents/{id} requests
func (h *DocumentHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/documents/")
	if id == "" || strings.Contains(id, "/") {
		h.writeError(w, http.StatusBadRequest, "Document ID is required")
		return
	}

	if err := h.documentService.DeleteDocument(r.Context(), id); err != nil {
		h.logger.Error().Err(err).Str("document_id", id).Msg("Failed to delete document")
		h.writeError(w, http.StatusInternalServerError, "Failed to delete document")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
	})
}

// StatsHandler handles GET /api/documents/stats requests
func (h *DocumentHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.documentService.GetStats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to get document stats")
		h.writeError(w, http.StatusInternalServerError, "Failed to get stats")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"stats":   stats,
	})
}

func (h *DocumentHandler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
