package interfaces

import (
	"context"
)

// CompletionRequest bounds a single text completion call.
type CompletionRequest struct {
	// Prompt is the full prompt text, including any context block.
	Prompt string

	// System is an optional system instruction.
	System string

	// MaxTokens caps the response length. Zero uses the provider default.
	MaxTokens int

	// Temperature controls sampling. Zero uses the provider default.
	Temperature float32
}

// LLMService defines the interface for language model operations: text
// completion and embedding generation. Implementations may use Gemini
// or Claude cloud APIs.
type LLMService interface {
	// Complete generates a text completion for the given request.
	Complete(ctx context.Context, req *CompletionRequest) (string, error)

	// Embed generates an embedding vector for the given text. The
	// dimension is fixed by configuration.
	Embed(ctx context.Context, text string) ([]float32, error)

	// HealthCheck verifies the LLM service can handle requests.
	HealthCheck(ctx context.Context) error

	// Close releases provider clients.
	Close() error
}
