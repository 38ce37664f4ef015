package interfaces

import "errors"

// Sentinel errors for collaborator failures. Adapters wrap these so the
// workflow can recognize a degraded dependency and continue instead of
// failing the whole request.
var (
	// ErrRetrievalUnavailable indicates knowledge-base retrieval failed.
	ErrRetrievalUnavailable = errors.New("knowledge retrieval unavailable")

	// ErrSearchUnavailable indicates the web search provider failed.
	ErrSearchUnavailable = errors.New("web search unavailable")

	// ErrWeatherUnavailable indicates the weather provider failed.
	ErrWeatherUnavailable = errors.New("weather service unavailable")

	// ErrLLMUnavailable indicates the language model call failed.
	ErrLLMUnavailable = errors.New("language model unavailable")

	// ErrParseAmbiguous indicates a model response could not be parsed
	// into a usable verdict.
	ErrParseAmbiguous = errors.New("model response ambiguous")
)
