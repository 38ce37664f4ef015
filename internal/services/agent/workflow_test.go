package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ternarybob/oraculum/internal/common"
	"github.com/ternarybob/oraculum/internal/interfaces"
	"github.com/ternarybob/oraculum/internal/models"
)

// stubLLM answers sufficiency checks and synthesis calls from a
// configurable function.
type stubLLM struct {
	completeFn func(ctx context.Context, req *interfaces.CompletionRequest) (string, error)
}

func (s *stubLLM) Complete(ctx context.Context, req *interfaces.CompletionRequest) (string, error) {
	return s.completeFn(ctx, req)
}

func (s *stubLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

func (s *stubLLM) HealthCheck(ctx context.Context) error { return nil }
func (s *stubLLM) Close() error                          { return nil }

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (s *stubEmbedder) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	return s.GenerateEmbedding(ctx, query)
}

func (s *stubEmbedder) EmbedChunk(ctx context.Context, chunk *models.Chunk) error { return nil }
func (s *stubEmbedder) ModelName() string                                         { return "stub-embedder" }
func (s *stubEmbedder) Dimension() int                                            { return 3 }
func (s *stubEmbedder) IsAvailable(ctx context.Context) bool                      { return true }

type stubDocuments struct {
	chunks []*models.ScoredChunk
	err    error
}

func (s *stubDocuments) SaveDocument(ctx context.Context, doc *models.Document, chunks []*models.Chunk) error {
	return nil
}
func (s *stubDocuments) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	return nil, errors.New("not found")
}
func (s *stubDocuments) DeleteDocument(ctx context.Context, id string) error { return nil }
func (s *stubDocuments) List(ctx context.Context, opts *interfaces.ListOptions) ([]*models.Document, error) {
	return nil, nil
}

func (s *stubDocuments) VectorSearch(ctx context.Context, embedding []float32, limit int) ([]*models.ScoredChunk, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.chunks, nil
}

func (s *stubDocuments) PendingChunks(ctx context.Context, limit int) ([]*models.Chunk, error) {
	return nil, nil
}
func (s *stubDocuments) UpdateChunk(ctx context.Context, chunk *models.Chunk) error { return nil }
func (s *stubDocuments) GetStats(ctx context.Context) (*models.DocumentStats, error) {
	return &models.DocumentStats{}, nil
}

type stubSearch struct {
	results []interfaces.SearchResult
	err     error
	calls   int
}

func (s *stubSearch) Search(ctx context.Context, query string) ([]interfaces.SearchResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

type stubWeather struct {
	fact      *models.WeatherFact
	err       error
	calls     int
	locations []string
}

func (s *stubWeather) CurrentWeather(ctx context.Context, location string) (*models.WeatherFact, error) {
	s.calls++
	s.locations = append(s.locations, location)
	if s.err != nil {
		return nil, s.err
	}
	return s.fact, nil
}

type workflowFixture struct {
	service   *Service
	documents *stubDocuments
	search    *stubSearch
	weather   *stubWeather
}

// sufficiencyReply drives the assessor; answer is the synthesized text.
func newWorkflowFixture(t *testing.T, chunks []*models.ScoredChunk, sufficiencyReply, answer string) *workflowFixture {
	t.Helper()

	llm := &stubLLM{
		completeFn: func(ctx context.Context, req *interfaces.CompletionRequest) (string, error) {
			if req.System == sufficiencySystemPrompt {
				return sufficiencyReply, nil
			}
			return answer, nil
		},
	}

	cfg := common.NewDefaultConfig()
	logger := common.GetLogger()

	documents := &stubDocuments{chunks: chunks}
	retriever := NewRetriever(&stubEmbedder{}, documents, &cfg.Retrieval, logger)
	assessor := NewSufficiencyAssessor(llm, logger)
	synthesizer := NewSynthesizer(llm, logger)
	search := &stubSearch{results: []interfaces.SearchResult{
		{Title: "Result One", URL: "https://example.com/1", Snippet: "first snippet"},
		{Title: "Result Two", URL: "https://example.com/2", Snippet: "second snippet"},
	}}
	weather := &stubWeather{fact: &models.WeatherFact{
		Location:           "Tokyo",
		Condition:          "clear sky",
		TemperatureCelsius: 22.5,
	}}

	service := NewService(retriever, assessor, synthesizer, search, weather, nil, cfg, logger)
	return &workflowFixture{service: service, documents: documents, search: search, weather: weather}
}

func someChunks() []*models.ScoredChunk {
	return []*models.ScoredChunk{
		{Chunk: &models.Chunk{ID: "chunk_1", DocumentID: "doc_1", Content: "vacation policy details"}, Score: 0.91},
		{Chunk: &models.Chunk{ID: "chunk_2", DocumentID: "doc_1", Content: "more policy details"}, Score: 0.84},
	}
}

// checkTrace verifies steps start at 1 and increase without gaps.
func checkTrace(t *testing.T, events []models.TraceEvent) {
	t.Helper()
	for i, event := range events {
		if event.Step != i+1 {
			t.Errorf("trace step %d has number %d, want %d", i, event.Step, i+1)
		}
	}
}

func eventTypes(events []models.TraceEvent) []string {
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = string(e.EventType)
	}
	return types
}

func hasEventType(events []models.TraceEvent, eventType models.EventType) bool {
	for _, e := range events {
		if e.EventType == eventType {
			return true
		}
	}
	return false
}

func TestAsk_KnowledgeSufficient(t *testing.T) {
	fx := newWorkflowFixture(t, someChunks(), "SUFFICIENT\nThe passages cover the question.", "You get 20 vacation days.")

	result, err := fx.service.Ask(context.Background(), &interfaces.AskRequest{
		Query:           "How many vacation days do employees get?",
		EnableWebSearch: true,
	})
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	if result.Route != models.RouteKnowledge {
		t.Errorf("route = %s, want %s", result.Route, models.RouteKnowledge)
	}
	if result.Response != "You get 20 vacation days." {
		t.Errorf("unexpected answer: %q", result.Response)
	}
	if fx.search.calls != 0 {
		t.Errorf("web search called %d times despite sufficient context", fx.search.calls)
	}
	if hasEventType(result.TraceEvents, models.EventWebSearchAction) || hasEventType(result.TraceEvents, models.EventWebSearchDecision) {
		t.Errorf("trace contains web search events despite sufficient context: %v", eventTypes(result.TraceEvents))
	}
	checkTrace(t, result.TraceEvents)
}

func TestAsk_FallbackToWebSearch(t *testing.T) {
	fx := newWorkflowFixture(t, someChunks(), "INSUFFICIENT\nThe passages do not mention this.", "Answer from combined sources.")

	result, err := fx.service.Ask(context.Background(), &interfaces.AskRequest{
		Query:           "What changed in the latest release?",
		EnableWebSearch: true,
	})
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	if result.Route != models.RouteKnowledgeThenWeb {
		t.Errorf("route = %s, want %s", result.Route, models.RouteKnowledgeThenWeb)
	}
	if fx.search.calls != 1 {
		t.Errorf("web search called %d times, want 1", fx.search.calls)
	}

	// Node order: retrieval before sufficiency before web search before answer
	var order []models.NodeName
	for _, e := range result.TraceEvents {
		order = append(order, e.NodeName)
	}
	wantOrder := []models.NodeName{models.NodeRouter, models.NodeRAGRetrieval, models.NodeSufficiencyCheck, models.NodeWebSearch, models.NodeAnswer}
	if len(order) != len(wantOrder) {
		t.Fatalf("trace nodes = %v, want %v", order, wantOrder)
	}
	for i := range wantOrder {
		if order[i] != wantOrder[i] {
			t.Errorf("trace node %d = %s, want %s", i, order[i], wantOrder[i])
		}
	}
	checkTrace(t, result.TraceEvents)
}

func TestAsk_WebSearchDisabled(t *testing.T) {
	fx := newWorkflowFixture(t, someChunks(), "INSUFFICIENT\nNot covered.", "Partial answer from retrieved context.")

	result, err := fx.service.Ask(context.Background(), &interfaces.AskRequest{
		Query:           "What changed in the latest release?",
		EnableWebSearch: false,
	})
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	if result.Route != models.RouteKnowledge {
		t.Errorf("route = %s, want %s", result.Route, models.RouteKnowledge)
	}
	if fx.search.calls != 0 {
		t.Errorf("web search called %d times with fallback disabled", fx.search.calls)
	}
	if !hasEventType(result.TraceEvents, models.EventWebSearchDecision) {
		t.Errorf("trace missing the skipped-web-search decision: %v", eventTypes(result.TraceEvents))
	}
	if hasEventType(result.TraceEvents, models.EventWebSearchAction) {
		t.Errorf("trace contains a web search action with fallback disabled: %v", eventTypes(result.TraceEvents))
	}
	checkTrace(t, result.TraceEvents)
}

func TestAsk_WeatherRoute(t *testing.T) {
	// Weather routing ignores the web search preference
	for _, enableWebSearch := range []bool{true, false} {
		fx := newWorkflowFixture(t, nil, "SUFFICIENT", "The weather in Tokyo is clear sky with 22.5°C.")

		result, err := fx.service.Ask(context.Background(), &interfaces.AskRequest{
			Query:           "What's the weather in Tokyo?",
			EnableWebSearch: enableWebSearch,
		})
		if err != nil {
			t.Fatalf("Ask failed: %v", err)
		}

		if result.Route != models.RouteWeather {
			t.Errorf("route = %s, want %s (enable_web_search=%v)", result.Route, models.RouteWeather, enableWebSearch)
		}
		if fx.weather.calls != 1 {
			t.Errorf("weather called %d times, want 1", fx.weather.calls)
		}
		if fx.weather.locations[0] != "Tokyo" {
			t.Errorf("weather queried for %q, want Tokyo", fx.weather.locations[0])
		}
		if fx.search.calls != 0 {
			t.Errorf("web search called on the weather route")
		}
		checkTrace(t, result.TraceEvents)
	}
}

func TestAsk_WeatherDefaultLocation(t *testing.T) {
	fx := newWorkflowFixture(t, nil, "SUFFICIENT", "answer")

	_, err := fx.service.Ask(context.Background(), &interfaces.AskRequest{
		Query: "What's the weather like?",
	})
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	// Default comes from config when the query names no place
	if fx.weather.locations[0] != "London" {
		t.Errorf("weather queried for %q, want the configured default London", fx.weather.locations[0])
	}
}

func TestAsk_WeatherSourceUnavailable(t *testing.T) {
	fx := newWorkflowFixture(t, nil, "SUFFICIENT", "answer")
	fx.weather.err = interfaces.ErrWeatherUnavailable

	result, err := fx.service.Ask(context.Background(), &interfaces.AskRequest{
		Query: "What's the weather in Tokyo?",
	})
	if err != nil {
		t.Fatalf("Ask must not fail when the weather source is down: %v", err)
	}

	if result.Route != models.RouteWeather {
		t.Errorf("route = %s, want %s", result.Route, models.RouteWeather)
	}
	if result.Response != insufficientInfoAnswer {
		t.Errorf("unexpected answer with no weather context: %q", result.Response)
	}

	found := false
	for _, e := range result.TraceEvents {
		if strings.Contains(e.Description, "unavailable") {
			found = true
		}
	}
	if !found {
		t.Errorf("trace does not record the unavailable weather source: %v", result.TraceEvents)
	}
	checkTrace(t, result.TraceEvents)
}

func TestAsk_WeatherLookupFailed(t *testing.T) {
	fx := newWorkflowFixture(t, nil, "SUFFICIENT", "answer")
	fx.weather.err = context.DeadlineExceeded

	result, err := fx.service.Ask(context.Background(), &interfaces.AskRequest{
		Query: "What's the weather in Tokyo?",
	})
	if err != nil {
		t.Fatalf("Ask must not fail when the weather lookup errors: %v", err)
	}

	// Non-provider errors are traced as lookup failures, not as the
	// source being unavailable
	var weatherEvents []string
	for _, e := range result.TraceEvents {
		if e.NodeName == models.NodeWeather {
			weatherEvents = append(weatherEvents, e.Description)
		}
	}
	foundFailed := false
	for _, d := range weatherEvents {
		if strings.Contains(d, "unavailable") {
			t.Errorf("trace reports the source unavailable for a timeout: %q", d)
		}
		if strings.Contains(d, "lookup failed") {
			foundFailed = true
		}
	}
	if !foundFailed {
		t.Errorf("trace does not record the failed weather lookup: %v", weatherEvents)
	}
	checkTrace(t, result.TraceEvents)
}

func TestAsk_WebOnlyRoute(t *testing.T) {
	fx := newWorkflowFixture(t, nil, "INSUFFICIENT\nNothing retrieved.", "Answer from the web.")
	fx.documents.err = errors.New("storage offline")

	result, err := fx.service.Ask(context.Background(), &interfaces.AskRequest{
		Query:           "What changed in the latest release?",
		EnableWebSearch: true,
	})
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	// No passages but web results: the answer came from the web alone
	if result.Route != models.RouteWeb {
		t.Errorf("route = %s, want %s", result.Route, models.RouteWeb)
	}
	if fx.search.calls != 1 {
		t.Errorf("web search called %d times, want 1", fx.search.calls)
	}
	if result.Response != "Answer from the web." {
		t.Errorf("unexpected answer: %q", result.Response)
	}
	if !hasEventType(result.TraceEvents, models.EventWebSearchAction) {
		t.Errorf("trace missing the web search action: %v", eventTypes(result.TraceEvents))
	}
	checkTrace(t, result.TraceEvents)
}

func TestAsk_WebSearchSourceUnavailable(t *testing.T) {
	fx := newWorkflowFixture(t, someChunks(), "INSUFFICIENT\nNot covered.", "Best-effort answer.")
	fx.search.err = interfaces.ErrSearchUnavailable

	result, err := fx.service.Ask(context.Background(), &interfaces.AskRequest{
		Query:           "What changed upstream?",
		EnableWebSearch: true,
	})
	if err != nil {
		t.Fatalf("Ask must not fail when web search is down: %v", err)
	}

	// No snippets arrived, so the run stays on the knowledge route
	if result.Route != models.RouteKnowledge {
		t.Errorf("route = %s, want %s", result.Route, models.RouteKnowledge)
	}
	if result.Response != "Best-effort answer." {
		t.Errorf("unexpected answer: %q", result.Response)
	}
	checkTrace(t, result.TraceEvents)
}

func TestAsk_RetrievalUnavailable(t *testing.T) {
	fx := newWorkflowFixture(t, nil, "SUFFICIENT", "answer")

	result, err := fx.service.Ask(context.Background(), &interfaces.AskRequest{
		Query: "What does the handbook say about travel?",
	})
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	// Zero passages short-circuit to insufficient without an LLM verdict
	if result.Response != insufficientInfoAnswer {
		t.Errorf("unexpected answer with empty knowledge base: %q", result.Response)
	}
	if result.Route != models.RouteKnowledge {
		t.Errorf("route = %s, want %s", result.Route, models.RouteKnowledge)
	}
	checkTrace(t, result.TraceEvents)
}

func TestAsk_EmptyQuery(t *testing.T) {
	fx := newWorkflowFixture(t, nil, "SUFFICIENT", "answer")

	if _, err := fx.service.Ask(context.Background(), &interfaces.AskRequest{Query: "   "}); err == nil {
		t.Error("Ask accepted a blank query")
	}
	if _, err := fx.service.Ask(context.Background(), nil); err == nil {
		t.Error("Ask accepted a nil request")
	}
}

func TestAsk_CancelledContext(t *testing.T) {
	fx := newWorkflowFixture(t, someChunks(), "SUFFICIENT", "answer")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := fx.service.Ask(ctx, &interfaces.AskRequest{Query: "anything"}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestAsk_SessionIDGenerated(t *testing.T) {
	fx := newWorkflowFixture(t, someChunks(), "SUFFICIENT", "answer")

	result, err := fx.service.Ask(context.Background(), &interfaces.AskRequest{
		Query: "What is the policy?",
	})
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if result.Response == "" {
		t.Error("empty response")
	}
}

func TestAsk_RepeatedRunsIndependent(t *testing.T) {
	fx := newWorkflowFixture(t, someChunks(), "SUFFICIENT\nCovered.", "Stable answer.")

	req := &interfaces.AskRequest{Query: "How many vacation days do employees get?", SessionID: "sess_1"}

	first, err := fx.service.Ask(context.Background(), req)
	if err != nil {
		t.Fatalf("first Ask failed: %v", err)
	}
	second, err := fx.service.Ask(context.Background(), req)
	if err != nil {
		t.Fatalf("second Ask failed: %v", err)
	}

	if first.Route != second.Route {
		t.Errorf("routes differ across identical runs: %s vs %s", first.Route, second.Route)
	}
	if len(first.TraceEvents) != len(second.TraceEvents) {
		t.Errorf("trace lengths differ across identical runs: %d vs %d", len(first.TraceEvents), len(second.TraceEvents))
	}
	// Steps restart at 1 in each run
	if second.TraceEvents[0].Step != 1 {
		t.Errorf("second run trace starts at step %d, want 1", second.TraceEvents[0].Step)
	}
}
