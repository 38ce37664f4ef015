package interfaces

import (
	"context"
)

// IngestResult summarizes one document ingestion.
type IngestResult struct {
	DocumentID      string `json:"document_id"`
	Filename        string `json:"filename"`
	ProcessedChunks int    `json:"processed_chunks"`
}

// IngestService turns uploaded files into stored, chunked documents.
// Embedding happens asynchronously via the embedding coordinator.
type IngestService interface {
	// IngestPDF extracts text from a PDF upload, chunks it per page,
	// and stores the document with embeddings pending.
	IngestPDF(ctx context.Context, filename string, data []byte) (*IngestResult, error)

	// IngestMarkdown chunks markdown or plain text on heading
	// boundaries and stores the document with embeddings pending.
	IngestMarkdown(ctx context.Context, filename string, data []byte) (*IngestResult, error)
}
