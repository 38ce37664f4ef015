package interfaces

import (
	"context"

	"github.com/ternarybob/oraculum/internal/models"
)

// DocumentService handles document and chunk operations over the
// knowledge store.
type DocumentService interface {
	// Save a document and its chunks (embeddings pending)
	SaveDocument(ctx context.Context, doc *models.Document, chunks []*models.Chunk) error

	// Get document by ID
	GetDocument(ctx context.Context, id string) (*models.Document, error)

	// Delete document and its chunks
	DeleteDocument(ctx context.Context, id string) error

	// List documents with pagination
	List(ctx context.Context, opts *ListOptions) ([]*models.Document, error)

	// VectorSearch returns the chunks most similar to the query
	// embedding, ordered by descending similarity.
	VectorSearch(ctx context.Context, embedding []float32, limit int) ([]*models.ScoredChunk, error)

	// PendingChunks returns chunks awaiting embedding, oldest first.
	PendingChunks(ctx context.Context, limit int) ([]*models.Chunk, error)

	// UpdateChunk persists an embedded chunk.
	UpdateChunk(ctx context.Context, chunk *models.Chunk) error

	// Stats
	GetStats(ctx context.Context) (*models.DocumentStats, error)
}

// ListOptions for listing documents
type ListOptions struct {
	SourceType string
	Limit      int
	Offset     int
}
