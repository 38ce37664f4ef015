package badger

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/oraculum/internal/interfaces"
	"github.com/ternarybob/oraculum/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// DocumentStorage implements the DocumentStorage interface for Badger
type DocumentStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewDocumentStorage creates a new DocumentStorage instance
func NewDocumentStorage(db *BadgerDB, logger arbor.ILogger) interfaces.DocumentStorage {
	return &DocumentStorage{
		db:     db,
		logger: logger,
	}
}

func (s *DocumentStorage) SaveDocument(doc *models.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document ID is required")
	}

	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if err := s.db.Store().Upsert(doc.ID, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

func (s *DocumentStorage) GetDocument(id string) (*models.Document, error) {
	var doc models.Document
	if err := s.db.Store().Get(id, &doc); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("document not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

func (s *DocumentStorage) DeleteDocument(id string) error {
	if err := s.db.Store().Delete(id, &models.Document{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

func (s *DocumentStorage) ListDocuments(opts *interfaces.ListOptions) ([]*models.Document, error) {
	if opts == nil {
		opts = &interfaces.ListOptions{Limit: 50}
	}
	if opts.Limit <= 0 {
		opts.Limit = 50
	}

	query := &badgerhold.Query{}
	if opts.SourceType != "" {
		query = badgerhold.Where("SourceType").Eq(opts.SourceType)
	}
	query = query.SortBy("UpdatedAt").Reverse().Skip(opts.Offset).Limit(opts.Limit)

	var docs []models.Document
	if err := s.db.Store().Find(&docs, query); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	result := make([]*models.Document, len(docs))
	for i := range docs {
		result[i] = &docs[i]
	}
	return result, nil
}

func (s *DocumentStorage) CountDocuments() (int, error) {
	count, err := s.db.Store().Count(&models.Document{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return int(count), nil
}

func (s *DocumentStorage) SaveChunk(chunk *models.Chunk) error {
	if chunk.ID == "" {
		return fmt.Errorf("chunk ID is required")
	}

	now := time.Now()
	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = now
	}
	chunk.UpdatedAt = now

	if err := s.db.Store().Upsert(chunk.ID, chunk); err != nil {
		return fmt.Errorf("failed to save chunk: %w", err)
	}
	return nil
}

func (s *DocumentStorage) SaveChunks(chunks []*models.Chunk) error {
	for _, chunk := range chunks {
		if err := s.SaveChunk(chunk); err != nil {
			return err
		}
	}
	return nil
}

func (s *DocumentStorage) GetChunk(id string) (*models.Chunk, error) {
	var chunk models.Chunk
	if err := s.db.Store().Get(id, &chunk); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("chunk not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get chunk: %w", err)
	}
	return &chunk, nil
}

func (s *DocumentStorage) DeleteChunksByDocument(documentID string) error {
	if err := s.db.Store().DeleteMatching(&models.Chunk{}, badgerhold.Where("DocumentID").Eq(documentID)); err != nil {
		return fmt.Errorf("failed to delete chunks for document %s: %w", documentID, err)
	}
	return nil
}

func (s *DocumentStorage) PendingChunks(limit int) ([]*models.Chunk, error) {
	if limit <= 0 {
		limit = 50
	}

	var chunks []models.Chunk
	query := badgerhold.Where("EmbeddingPending").Eq(true).SortBy("CreatedAt").Limit(limit)
	if err := s.db.Store().Find(&chunks, query); err != nil {
		return nil, fmt.Errorf("failed to find pending chunks: %w", err)
	}

	result := make([]*models.Chunk, len(chunks))
	for i := range chunks {
		result[i] = &chunks[i]
	}
	return result, nil
}

func (s *DocumentStorage) CountChunks() (int, int, error) {
	embedded, err := s.db.Store().Count(&models.Chunk{}, badgerhold.Where("EmbeddingPending").Eq(false))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count embedded chunks: %w", err)
	}
	pending, err := s.db.Store().Count(&models.Chunk{}, badgerhold.Where("EmbeddingPending").Eq(true))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count pending chunks: %w", err)
	}
	return int(embedded), int(pending), nil
}

// VectorSearch scans embedded chunks and ranks them by cosine
// similarity to the query embedding. Brute force is fine at this
// corpus size; the scan stays inside the storage layer so a real index
// can replace it without touching callers.
func (s *DocumentStorage) VectorSearch(embedding []float32, limit int) ([]*models.ScoredChunk, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("query embedding is required")
	}
	if limit <= 0 {
		limit = 10
	}

	var chunks []models.Chunk
	if err := s.db.Store().Find(&chunks, badgerhold.Where("EmbeddingPending").Eq(false)); err != nil {
		return nil, fmt.Errorf("failed to scan chunks: %w", err)
	}

	scored := make([]*models.ScoredChunk, 0, len(chunks))
	for i := range chunks {
		if len(chunks[i].Embedding) != len(embedding) {
			continue
		}
		score := cosineSimilarity(embedding, chunks[i].Embedding)
		scored = append(scored, &models.ScoredChunk{Chunk: &chunks[i], Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (s *DocumentStorage) GetStats() (*models.DocumentStats, error) {
	total, err := s.CountDocuments()
	if err != nil {
		return nil, err
	}
	embedded, pending, err := s.CountChunks()
	if err != nil {
		return nil, err
	}

	bySource := make(map[string]int)
	for _, sourceType := range []string{models.SourceTypePDF, models.SourceTypeMarkdown} {
		count, err := s.db.Store().Count(&models.Document{}, badgerhold.Where("SourceType").Eq(sourceType))
		if err != nil {
			return nil, fmt.Errorf("failed to count %s documents: %w", sourceType, err)
		}
		bySource[sourceType] = int(count)
	}

	return &models.DocumentStats{
		TotalDocuments:    total,
		TotalChunks:       embedded + pending,
		EmbeddedChunks:    embedded,
		PendingChunks:     pending,
		DocumentsBySource: bySource,
		LastUpdated:       time.Now(),
	}, nil
}

// cosineSimilarity maps the raw cosine from [-1,1] into [0,1] so
// scores compose with the min-similarity config threshold.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return (cos + 1) / 2
}
