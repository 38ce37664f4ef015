package embeddings

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/oraculum/internal/common"
	"github.com/ternarybob/oraculum/internal/interfaces"
	"github.com/ternarybob/oraculum/internal/models"
)

// EmbeddingService wraps the LLM service's embedding endpoint with
// chunk bookkeeping and model metadata.
type EmbeddingService struct {
	llm    interfaces.LLMService
	config *common.GeminiConfig
	logger arbor.ILogger
}

// NewEmbeddingService creates an embedding service
func NewEmbeddingService(llm interfaces.LLMService, config *common.GeminiConfig, logger arbor.ILogger) *EmbeddingService {
	return &EmbeddingService{
		llm:    llm,
		config: config,
		logger: logger,
	}
}

// GenerateEmbedding generates an embedding vector for raw document text
func (s *EmbeddingService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}
	return s.llm.Embed(ctx, text)
}

// GenerateQueryEmbedding generates an embedding for a search query.
// Queries and documents share the embedding space, so the same model
// call is used for both.
func (s *EmbeddingService) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	return s.GenerateEmbedding(ctx, query)
}

// EmbedChunk generates and attaches the embedding for a chunk, clearing
// its pending flag on success.
func (s *EmbeddingService) EmbedChunk(ctx context.Context, chunk *models.Chunk) error {
	if chunk == nil {
		return fmt.Errorf("chunk is nil")
	}
	if chunk.Content == "" {
		return fmt.Errorf("chunk %s has no content", chunk.ID)
	}

	embedding, err := s.GenerateEmbedding(ctx, chunk.Content)
	if err != nil {
		return fmt.Errorf("failed to embed chunk %s: %w", chunk.ID, err)
	}

	chunk.Embedding = embedding
	chunk.EmbeddingModel = s.config.EmbedModelName
	chunk.EmbeddingPending = false
	chunk.UpdatedAt = time.Now()

	return nil
}

// ModelName returns the configured embedding model name
func (s *EmbeddingService) ModelName() string {
	return s.config.EmbedModelName
}

// Dimension returns the configured embedding dimension
func (s *EmbeddingService) Dimension() int {
	return s.config.EmbedDimension
}

// IsAvailable checks whether the embedding backend is configured
func (s *EmbeddingService) IsAvailable(ctx context.Context) bool {
	return s.llm.HealthCheck(ctx) == nil
}
