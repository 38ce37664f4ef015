package interfaces

import (
	"context"

	"github.com/ternarybob/oraculum/internal/models"
)

// EmbeddingService generates vector embeddings
type EmbeddingService interface {
	// Generate embedding for raw text
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// Generate query embedding (may use a different prompt than document embedding)
	GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error)

	// Generate and set the embedding for a chunk
	EmbedChunk(ctx context.Context, chunk *models.Chunk) error

	// Model information
	ModelName() string
	Dimension() int

	// Check if the service is available
	IsAvailable(ctx context.Context) bool
}
