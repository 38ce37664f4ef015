package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/oraculum/internal/common"
	"github.com/ternarybob/oraculum/internal/interfaces"
	"github.com/ternarybob/oraculum/internal/models"
)

// Service ingests uploaded files into the knowledge store. Extraction
// and chunking happen inline; embedding is deferred to the coordinator.
type Service struct {
	documents interfaces.DocumentService
	extractor *PDFExtractor
	chunker   *Chunker
	logger    arbor.ILogger
}

// NewService creates an ingest service
func NewService(documents interfaces.DocumentService, logger arbor.ILogger) *Service {
	return &Service{
		documents: documents,
		extractor: NewPDFExtractor(logger),
		chunker:   NewChunker(defaultMaxChunkChars),
		logger:    logger,
	}
}

// IngestPDF extracts text from PDF bytes, chunks it, and stores the
// document with embeddings pending.
func (s *Service) IngestPDF(ctx context.Context, filename string, data []byte) (*interfaces.IngestResult, error) {
	text, err := s.extractor.ExtractText(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract PDF text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no extractable text in %s", filename)
	}

	chunks := s.chunker.ChunkText(text)
	return s.store(ctx, filename, models.SourceTypePDF, chunks)
}

// IngestMarkdown chunks markdown on heading boundaries and stores the
// document with embeddings pending.
func (s *Service) IngestMarkdown(ctx context.Context, filename string, data []byte) (*interfaces.IngestResult, error) {
	content := string(data)
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("empty file %s", filename)
	}

	chunks := s.chunker.ChunkMarkdown(content)
	return s.store(ctx, filename, models.SourceTypeMarkdown, chunks)
}

func (s *Service) store(ctx context.Context, filename, sourceType string, pieces []string) (*interfaces.IngestResult, error) {
	if len(pieces) == 0 {
		return nil, fmt.Errorf("no chunks produced from %s", filename)
	}

	now := time.Now()
	doc := &models.Document{
		ID:         common.NewDocumentID(),
		SourceType: sourceType,
		Filename:   filename,
		Title:      titleFromFilename(filename),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	chunks := make([]*models.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, &models.Chunk{
			ID:               common.NewChunkID(),
			DocumentID:       doc.ID,
			Index:            i,
			Content:          piece,
			EmbeddingPending: true,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}

	if err := s.documents.SaveDocument(ctx, doc, chunks); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("document_id", doc.ID).
		Str("filename", filename).
		Str("source_type", sourceType).
		Int("chunks", len(chunks)).
		Msg("Document ingested")

	return &interfaces.IngestResult{
		DocumentID:      doc.ID,
		Filename:        filename,
		ProcessedChunks: len(chunks),
	}, nil
}

func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	title := strings.TrimSuffix(base, ext)
	title = strings.ReplaceAll(title, "_", " ")
	title = strings.ReplaceAll(title, "-", " ")
	return strings.TrimSpace(title)
}
