package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/oraculum/internal/interfaces"
	"github.com/ternarybob/oraculum/internal/models"
)

// DocumentService manages documents and chunks in the knowledge store
type DocumentService struct {
	storage interfaces.DocumentStorage
	events  interfaces.EventService
	logger  arbor.ILogger
}

// NewDocumentService creates a document service
func NewDocumentService(storage interfaces.DocumentStorage, events interfaces.EventService, logger arbor.ILogger) *DocumentService {
	return &DocumentService{
		storage: storage,
		events:  events,
		logger:  logger,
	}
}

// SaveDocument persists a document with its chunks. Chunks arrive with
// embeddings pending; the coordinator fills them in later.
func (s *DocumentService) SaveDocument(ctx context.Context, doc *models.Document, chunks []*models.Chunk) error {
	if doc == nil {
		return fmt.Errorf("document is nil")
	}
	if doc.ID == "" {
		return fmt.Errorf("document ID is required")
	}

	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	doc.ChunkCount = len(chunks)

	if err := s.storage.SaveDocument(doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	for _, chunk := range chunks {
		chunk.DocumentID = doc.ID
		if chunk.CreatedAt.IsZero() {
			chunk.CreatedAt = now
		}
		chunk.UpdatedAt = now
	}

	if err := s.storage.SaveChunks(chunks); err != nil {
		return fmt.Errorf("failed to save chunks: %w", err)
	}

	s.logger.Info().
		Str("document_id", doc.ID).
		Str("filename", doc.Filename).
		Int("chunks", len(chunks)).
		Msg("Document saved")

	if s.events != nil {
		_ = s.events.Publish(ctx, interfaces.Event{
			Type: interfaces.EventDocumentIngested,
			Payload: map[string]interface{}{
				"document_id": doc.ID,
				"filename":    doc.Filename,
				"chunk_count": len(chunks),
			},
		})
	}

	return nil
}

// GetDocument retrieves a document by ID
func (s *DocumentService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	if id == "" {
		return nil, fmt.Errorf("document ID is required")
	}
	return s.storage.GetDocument(id)
}

// DeleteDocument removes a document and all its chunks
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("document ID is required")
	}

	if err := s.storage.DeleteChunksByDocument(id); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	if err := s.storage.DeleteDocument(id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	s.logger.Info().Str("document_id", id).Msg("Document deleted")
	return nil
}

// List returns documents matching the options
func (s *DocumentService) List(ctx context.Context, opts *interfaces.ListOptions) ([]*models.Document, error) {
	if opts == nil {
		opts = &interfaces.ListOptions{Limit: 50}
	}
	return s.storage.ListDocuments(opts)
}

// VectorSearch ranks embedded chunks against the query embedding
func (s *DocumentService) VectorSearch(ctx context.Context, embedding []float32, limit int) ([]*models.ScoredChunk, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("query embedding is empty")
	}
	if limit <= 0 {
		limit = 5
	}
	return s.storage.VectorSearch(embedding, limit)
}

// PendingChunks returns chunks still awaiting embeddings
func (s *DocumentService) PendingChunks(ctx context.Context, limit int) ([]*models.Chunk, error) {
	return s.storage.PendingChunks(limit)
}

// UpdateChunk persists an updated chunk
func (s *DocumentService) UpdateChunk(ctx context.Context, chunk *models.Chunk) error {
	if chunk == nil || chunk.ID == "" {
		return fmt.Errorf("chunk ID is required")
	}
	return s.storage.SaveChunk(chunk)
}

// GetStats returns knowledge base statistics
func (s *DocumentService) GetStats(ctx context.Context) (*models.DocumentStats, error) {
	return s.storage.GetStats()
}
