package interfaces

import (
	"github.com/ternarybob/oraculum/internal/models"
)

// DocumentStorage is the persistence contract for documents and chunks.
// Vector ranking happens here so the storage layer owns the scan.
type DocumentStorage interface {
	SaveDocument(doc *models.Document) error
	GetDocument(id string) (*models.Document, error)
	DeleteDocument(id string) error
	ListDocuments(opts *ListOptions) ([]*models.Document, error)
	CountDocuments() (int, error)

	SaveChunk(chunk *models.Chunk) error
	SaveChunks(chunks []*models.Chunk) error
	GetChunk(id string) (*models.Chunk, error)
	DeleteChunksByDocument(documentID string) error
	PendingChunks(limit int) ([]*models.Chunk, error)
	CountChunks() (int, int, error) // embedded, pending

	// VectorSearch ranks embedded chunks by cosine similarity to the
	// query embedding, descending, capped at limit.
	VectorSearch(embedding []float32, limit int) ([]*models.ScoredChunk, error)

	GetStats() (*models.DocumentStats, error)
}

// StorageManager provides access to all storage interfaces
type StorageManager interface {
	DocumentStorage() DocumentStorage
	Close() error
}
