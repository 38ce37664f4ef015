package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/oraculum/internal/common"
	"github.com/ternarybob/oraculum/internal/interfaces"
	"github.com/ternarybob/oraculum/internal/models"
	"github.com/ternarybob/oraculum/internal/services/weather"
)

// workflowState enumerates the router's states. The topology is small
// and fixed, so an explicit enum plus a transition switch replaces any
// generic graph machinery.
type workflowState int

const (
	stateStart workflowState = iota
	stateWeatherCheck
	stateWeatherPath
	stateKnowledgePath
	stateAnswer
	stateEnd
)

// Service is the router/orchestrator: one state-machine run per query,
// no shared mutable state across runs. Collaborator failures become
// path decisions, never fatal errors.
type Service struct {
	retriever   *Retriever
	assessor    *SufficiencyAssessor
	synthesizer *Synthesizer
	search      interfaces.WebSearchService
	weather     interfaces.WeatherService
	events      interfaces.EventService
	config      *common.Config
	logger      arbor.ILogger
}

// NewService wires the workflow from its collaborators
func NewService(
	retriever *Retriever,
	assessor *SufficiencyAssessor,
	synthesizer *Synthesizer,
	search interfaces.WebSearchService,
	weather interfaces.WeatherService,
	events interfaces.EventService,
	config *common.Config,
	logger arbor.ILogger,
) *Service {
	return &Service{
		retriever:   retriever,
		assessor:    assessor,
		synthesizer: synthesizer,
		search:      search,
		weather:     weather,
		events:      events,
		config:      config,
		logger:      logger,
	}
}

// Ask runs the state machine once for the query. The returned trace
// records every decision in execution order, steps numbered from 1.
func (s *Service) Ask(ctx context.Context, req *interfaces.AskRequest) (*interfaces.AskResult, error) {
	if req == nil || strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("query text is required")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = common.NewSessionID()
	}

	state := &models.WorkflowState{
		Query: models.Query{
			Text:             strings.TrimSpace(req.Query),
			SessionID:        sessionID,
			WebSearchEnabled: req.EnableWebSearch,
		},
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Bool("web_search_enabled", req.EnableWebSearch).
		Msg("Workflow run started")

	current := stateStart
	for current != stateEnd {
		// Abandon at the next transition if the caller went away
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch current {
		case stateStart:
			current = stateWeatherCheck

		case stateWeatherCheck:
			if DetectWeatherIntent(state.Query.Text) {
				state.Route = models.RouteWeather
				s.trace(ctx, state, models.NodeRouter, models.EventRouterDecision,
					"Query classified as a weather question; routing to the weather service")
				current = stateWeatherPath
			} else {
				s.trace(ctx, state, models.NodeRouter, models.EventRouterDecision,
					"Query routed to knowledge base retrieval")
				current = stateKnowledgePath
			}

		case stateWeatherPath:
			s.runWeatherPath(ctx, state)
			current = stateAnswer

		case stateKnowledgePath:
			s.runKnowledgePath(ctx, state)
			current = stateAnswer

		case stateAnswer:
			if state.Route == "" {
				state.Route = s.resolveRoute(state)
			}
			s.runAnswer(ctx, state)
			current = stateEnd
		}
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Str("route", string(state.Route)).
		Int("trace_events", len(state.Trace)).
		Msg("Workflow run completed")

	return &interfaces.AskResult{
		Response:    state.FinalAnswer,
		Route:       state.Route,
		TraceEvents: state.Trace,
	}, nil
}

// runWeatherPath extracts the location and fetches current conditions.
// Adapter failure leaves the weather fact empty; the synthesizer then
// reports the missing source instead of the run aborting.
func (s *Service) runWeatherPath(ctx context.Context, state *models.WorkflowState) {
	location := ExtractLocation(state.Query.Text)
	if location == "" {
		location = s.config.Weather.DefaultLocation
		s.trace(ctx, state, models.NodeWeather, models.EventWeatherAction,
			fmt.Sprintf("No location found in query; using default location %q", location))
	} else {
		s.trace(ctx, state, models.NodeWeather, models.EventWeatherAction,
			fmt.Sprintf("Extracted location %q from query", location))
	}

	wctx, cancel := s.callContext(ctx, s.config.Weather.RequestTimeout.Std())
	defer cancel()

	fact, err := s.weather.CurrentWeather(wctx, location)
	if err != nil {
		s.logger.Warn().Err(err).Str("location", location).Msg("Weather adapter failed")
		description := fmt.Sprintf("Weather lookup failed for %q", location)
		if weather.IsUnavailable(err) {
			description = fmt.Sprintf("Weather source unavailable for %q", location)
		}
		s.trace(ctx, state, models.NodeWeather, models.EventWeatherAction, description)
		return
	}

	state.Weather = fact
	s.trace(ctx, state, models.NodeWeather, models.EventWeatherAction,
		fmt.Sprintf("Fetched current conditions for %s: %s, %.1f°C", fact.Location, fact.Condition, fact.TemperatureCelsius))
}

// runKnowledgePath retrieves passages, assesses sufficiency, and falls
// back to web search when permitted. Retrieval failure is treated as
// insufficient context, not an error.
func (s *Service) runKnowledgePath(ctx context.Context, state *models.WorkflowState) {
	rctx, cancel := s.callContext(ctx, s.config.Retrieval.RequestTimeout.Std())
	passages, err := s.retriever.Retrieve(rctx, state.Query.Text)
	cancel()

	if err != nil {
		s.logger.Warn().Err(err).Msg("Knowledge retrieval failed, continuing with empty context")
		s.trace(ctx, state, models.NodeRAGRetrieval, models.EventRAGRetrievalAction,
			"Knowledge base unavailable; no passages retrieved")
	} else {
		state.Passages = passages
		s.trace(ctx, state, models.NodeRAGRetrieval, models.EventRAGRetrievalAction,
			fmt.Sprintf("Retrieved %d passages from the knowledge base", len(passages)))
	}

	actx, cancel := s.callContext(ctx, s.config.LLM.RequestTimeout.Std())
	verdict, verr := s.assessor.Assess(actx, state.Query.Text, state.Passages)
	cancel()
	if verr != nil {
		s.logger.Warn().Err(verr).Msg("Sufficiency assessment degraded to insufficient")
	}

	if verdict.IsSufficient {
		s.trace(ctx, state, models.NodeSufficiencyCheck, models.EventSufficiencyDecision,
			"Retrieved context judged sufficient to answer")
		return
	}

	rationale := verdict.Rationale
	if rationale == "" {
		rationale = "retrieved context does not cover the question"
	}
	s.trace(ctx, state, models.NodeSufficiencyCheck, models.EventSufficiencyDecision,
		fmt.Sprintf("Retrieved context judged insufficient: %s", rationale))

	if !state.Query.WebSearchEnabled {
		s.trace(ctx, state, models.NodeWebSearch, models.EventWebSearchDecision,
			"Web search skipped by user preference; answering from retrieved context only")
		return
	}

	sctx, cancel := s.callContext(ctx, s.config.WebSearch.RequestTimeout.Std())
	results, serr := s.search.Search(sctx, state.Query.Text)
	cancel()

	if serr != nil {
		s.logger.Warn().Err(serr).Msg("Web search fallback failed")
		s.trace(ctx, state, models.NodeWebSearch, models.EventWebSearchAction,
			"Web search source unavailable; answering from retrieved context only")
		return
	}

	for _, r := range results {
		snippet := r.Snippet
		if r.Title != "" {
			snippet = r.Title + ": " + snippet
		}
		state.SearchSnippets = append(state.SearchSnippets, snippet)
	}
	s.trace(ctx, state, models.NodeWebSearch, models.EventWebSearchAction,
		fmt.Sprintf("Web search returned %d results", len(results)))
}

// runAnswer synthesizes the final answer from the assembled context
func (s *Service) runAnswer(ctx context.Context, state *models.WorkflowState) {
	actx, cancel := s.callContext(ctx, s.config.LLM.RequestTimeout.Std())
	defer cancel()

	answer, err := s.synthesizer.Synthesize(actx, state.Query.Text, state)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Answer synthesis degraded")
	}
	state.FinalAnswer = answer

	s.trace(ctx, state, models.NodeAnswer, models.EventAnswerGeneration,
		"Final answer generated")
}

// resolveRoute sets the route for knowledge-path runs once all source
// decisions are made, just before synthesis.
func (s *Service) resolveRoute(state *models.WorkflowState) models.Route {
	switch {
	case len(state.Passages) > 0 && len(state.SearchSnippets) > 0:
		return models.RouteKnowledgeThenWeb
	case len(state.SearchSnippets) > 0:
		return models.RouteWeb
	default:
		return models.RouteKnowledge
	}
}

// trace appends the next ordered event and mirrors it onto the event
// bus for live streaming.
func (s *Service) trace(ctx context.Context, state *models.WorkflowState, node models.NodeName, eventType models.EventType, description string) {
	state.AddTrace(node, eventType, description)

	if s.events == nil {
		return
	}
	event := state.Trace[len(state.Trace)-1]
	_ = s.events.Publish(ctx, interfaces.Event{
		Type: interfaces.EventAgentTrace,
		Payload: map[string]interface{}{
			"session_id":  state.Query.SessionID,
			"step":        event.Step,
			"node_name":   string(event.NodeName),
			"event_type":  string(event.EventType),
			"description": event.Description,
		},
	})
}

// callContext bounds one collaborator call. A zero timeout leaves the
// caller's deadline in place.
func (s *Service) callContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// HealthCheck verifies the LLM collaborator is configured; the other
// adapters degrade per-request.
func (s *Service) HealthCheck(ctx context.Context) error {
	return s.assessor.llm.HealthCheck(ctx)
}
