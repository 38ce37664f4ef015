package models

// Route identifies the path the router chose for a query.
type Route string

const (
	RouteKnowledge        Route = "knowledge"
	RouteWeb              Route = "web"
	RouteWeather          Route = "weather"
	RouteKnowledgeThenWeb Route = "knowledge_then_web"
)

// NodeName identifies the workflow node that produced a trace event.
type NodeName string

const (
	NodeRouter           NodeName = "router"
	NodeRAGRetrieval     NodeName = "rag_retrieval"
	NodeSufficiencyCheck NodeName = "sufficiency_check"
	NodeWebSearch        NodeName = "web_search"
	NodeWeather          NodeName = "weather"
	NodeAnswer           NodeName = "answer"
)

// EventType is the node name qualified with what kind of step it was.
type EventType string

const (
	EventRouterDecision      EventType = "router_decision"
	EventRAGRetrievalAction  EventType = "rag_retrieval_action"
	EventSufficiencyDecision EventType = "sufficiency_check_decision"
	EventWebSearchAction     EventType = "web_search_action"
	EventWebSearchDecision   EventType = "web_search_decision"
	EventWeatherAction       EventType = "weather_action"
	EventAnswerGeneration    EventType = "answer_generation"
)

// TraceEvent is one ordered record of a workflow step, exposed to the
// caller so the UI can explain how the answer was produced. Steps start
// at 1 and increase without gaps; insertion order is execution order.
type TraceEvent struct {
	Step        int       `json:"step"`
	NodeName    NodeName  `json:"node_name"`
	Description string    `json:"description"`
	EventType   EventType `json:"event_type"`
}

// Query is the immutable input to one workflow run.
type Query struct {
	Text             string `json:"text"`
	SessionID        string `json:"session_id"`
	WebSearchEnabled bool   `json:"web_search_enabled"`
}

// RetrievedPassage is one knowledge-base passage with its similarity
// score, consumed only within a single workflow run.
type RetrievedPassage struct {
	Content          string  `json:"content"`
	SimilarityScore  float64 `json:"similarity_score"` // in [0,1]
	SourceDocumentID string  `json:"source_document_id"`
}

// SufficiencyVerdict is the assessor's judgment on whether retrieved
// passages are enough to answer the query.
type SufficiencyVerdict struct {
	IsSufficient bool   `json:"is_sufficient"`
	Rationale    string `json:"rationale"`
}

// WeatherFact holds current conditions for one location.
type WeatherFact struct {
	Location           string  `json:"location"`
	Condition          string  `json:"condition"`
	TemperatureCelsius float64 `json:"temperature_celsius"`
}

// WorkflowState is the mutable record threaded through one run. It is
// owned exclusively by that run and never shared across queries.
type WorkflowState struct {
	Query          Query
	Route          Route
	Passages       []RetrievedPassage
	SearchSnippets []string
	Weather        *WeatherFact
	Trace          []TraceEvent
	FinalAnswer    string
}

// AddTrace appends the next trace event, numbering it after the last.
func (s *WorkflowState) AddTrace(node NodeName, eventType EventType, description string) {
	s.Trace = append(s.Trace, TraceEvent{
		Step:        len(s.Trace) + 1,
		NodeName:    node,
		Description: description,
		EventType:   eventType,
	})
}
