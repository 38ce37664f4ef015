package models

import (
	"time"
)

const (
	// SourceTypePDF marks documents ingested from uploaded PDF files
	SourceTypePDF = "pdf"
	// SourceTypeMarkdown marks documents ingested from markdown/plain text
	SourceTypeMarkdown = "markdown"
)

// Document represents one ingested source document (an uploaded PDF or
// markdown file). Content lives in the chunks; the document row keeps
// identity and ingestion bookkeeping.
type Document struct {
	// Identity
	ID         string `json:"id"`          // doc_{uuid}
	SourceType string `json:"source_type"` // pdf, markdown
	Filename   string `json:"filename"`    // Original upload filename

	Title      string `json:"title"`
	ChunkCount int    `json:"chunk_count"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Chunk is the retrieval unit: one passage of a document plus its
// embedding vector. Chunks are what vector search ranks.
type Chunk struct {
	ID         string `json:"id"` // chunk_{uuid}
	DocumentID string `json:"document_id"`
	Index      int    `json:"index"` // Position within the document

	Content string `json:"content"`

	// Embedding state. EmbeddingPending chunks are picked up by the
	// embedding coordinator on its next scheduled run.
	Embedding        []float32 `json:"embedding,omitempty"`
	EmbeddingModel   string    `json:"embedding_model,omitempty"`
	EmbeddingPending bool      `json:"embedding_pending"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScoredChunk pairs a chunk with its similarity score for one query.
type ScoredChunk struct {
	Chunk *Chunk
	Score float64 // Cosine similarity in [0,1]
}

// DocumentStats represents statistics about the knowledge base
type DocumentStats struct {
	TotalDocuments    int            `json:"total_documents"`
	TotalChunks       int            `json:"total_chunks"`
	EmbeddedChunks    int            `json:"embedded_chunks"`
	PendingChunks     int            `json:"pending_chunks"`
	DocumentsBySource map[string]int `json:"documents_by_source"`
	LastUpdated       time.Time      `json:"last_updated"`
}
