package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/oraculum/internal/interfaces"
)

// AskHandler handles query workflow HTTP requests
type AskHandler struct {
	agentService interfaces.AgentService
	logger       arbor.ILogger
}

// NewAskHandler creates a new ask handler
func NewAskHandler(agentService interfaces.AgentService, logger arbor.ILogger) *AskHandler {
	return &AskHandler{
		agentService: agentService,
		logger:       logger,
	}
}

// AskHandler handles POST /api/ask requests
func (h *AskHandler) AskHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req interfaces.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode ask request")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "Invalid request body",
		})
		return
	}

	if req.Query == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "Query field is required",
		})
		return
	}

	h.logger.Info().
		Int("query_length", len(req.Query)).
		Bool("web_search_enabled", req.EnableWebSearch).
		Msg("Processing ask request")

	result, err := h.agentService.Ask(r.Context(), &req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Workflow run failed")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "Failed to process query: " + err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":      true,
		"response":     result.Response,
		"route":        result.Route,
		"trace_events": result.TraceEvents,
	})
}

// HealthHandler handles GET /api/ask/health requests
func (h *AskHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	err := h.agentService.HealthCheck(r.Context())

	w.Header().Set("Content-Type", "application/json")

	if err != nil {
		h.logger.Warn().Err(err).Msg("Agent service health check failed")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"healthy": false,
			"error":   err.Error(),
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"healthy": true,
	})
}
