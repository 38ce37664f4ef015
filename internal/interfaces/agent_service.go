package interfaces

import (
	"context"

	"github.com/ternarybob/oraculum/internal/models"
)

// AskRequest is the single entry point into the query workflow.
type AskRequest struct {
	// Query text from the user
	Query string `json:"query"`

	// Session identifier for conversation tracking
	SessionID string `json:"session_id"`

	// EnableWebSearch permits the web-search fallback when knowledge
	// retrieval is insufficient. The weather route ignores it.
	EnableWebSearch bool `json:"enable_web_search"`
}

// AskResult carries the final answer plus the ordered decision trace.
type AskResult struct {
	Response    string              `json:"response"`
	Route       models.Route        `json:"route"`
	TraceEvents []models.TraceEvent `json:"trace_events"`
}

// AgentService runs the routed question-answering workflow: classify
// the query, pick a source (knowledge base, web search, weather),
// assess retrieved context, fall back when permitted, and synthesize
// the final answer with full decision transparency.
type AgentService interface {
	// Ask runs one workflow for one query. Collaborator failures are
	// absorbed into path decisions; an error is returned only for
	// context cancellation or an invalid request.
	Ask(ctx context.Context, req *AskRequest) (*AskResult, error)

	// HealthCheck verifies the agent's collaborators are reachable.
	HealthCheck(ctx context.Context) error
}
