package embeddings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ternarybob/oraculum/internal/common"
	"github.com/ternarybob/oraculum/internal/interfaces"
	"github.com/ternarybob/oraculum/internal/models"
)

// coordinatorDocs serves pending chunks and signals each UpdateChunk so
// tests can wait for the asynchronous run to land.
type coordinatorDocs struct {
	mu      sync.Mutex
	pending []*models.Chunk
	updated chan string
}

func newCoordinatorDocs(chunks []*models.Chunk) *coordinatorDocs {
	return &coordinatorDocs{
		pending: chunks,
		updated: make(chan string, len(chunks)),
	}
}

func (d *coordinatorDocs) SaveDocument(ctx context.Context, doc *models.Document, chunks []*models.Chunk) error {
	return nil
}
func (d *coordinatorDocs) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	return nil, errors.New("not found")
}
func (d *coordinatorDocs) DeleteDocument(ctx context.Context, id string) error { return nil }
func (d *coordinatorDocs) List(ctx context.Context, opts *interfaces.ListOptions) ([]*models.Document, error) {
	return nil, nil
}
func (d *coordinatorDocs) VectorSearch(ctx context.Context, embedding []float32, limit int) ([]*models.ScoredChunk, error) {
	return nil, nil
}
func (d *coordinatorDocs) GetStats(ctx context.Context) (*models.DocumentStats, error) {
	return &models.DocumentStats{}, nil
}

func (d *coordinatorDocs) PendingChunks(ctx context.Context, limit int) ([]*models.Chunk, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*models.Chunk, 0, len(d.pending))
	for _, c := range d.pending {
		if c.EmbeddingPending {
			out = append(out, c)
		}
	}
	return out, nil
}

func (d *coordinatorDocs) UpdateChunk(ctx context.Context, chunk *models.Chunk) error {
	d.updated <- chunk.ID
	return nil
}

type chunkEmbedder struct {
	err error
}

func (e *chunkEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}
func (e *chunkEmbedder) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}
func (e *chunkEmbedder) ModelName() string                    { return "test-embedder" }
func (e *chunkEmbedder) Dimension() int                       { return 2 }
func (e *chunkEmbedder) IsAvailable(ctx context.Context) bool { return true }

func (e *chunkEmbedder) EmbedChunk(ctx context.Context, chunk *models.Chunk) error {
	if e.err != nil {
		return e.err
	}
	chunk.Embedding = []float32{0.1, 0.2}
	chunk.EmbeddingPending = false
	return nil
}

func pendingChunks(ids ...string) []*models.Chunk {
	chunks := make([]*models.Chunk, len(ids))
	for i, id := range ids {
		chunks[i] = &models.Chunk{ID: id, DocumentID: "doc_1", Content: "some text", EmbeddingPending: true}
	}
	return chunks
}

func TestRunNow_EmbedsPendingChunks(t *testing.T) {
	docs := newCoordinatorDocs(pendingChunks("chunk_1", "chunk_2"))
	cfg := &common.ProcessingConfig{Enabled: true, Limit: 10}
	svc := NewCoordinatorService(docs, &chunkEmbedder{}, nil, cfg, common.GetLogger())

	svc.RunNow()

	deadline := time.After(2 * time.Second)
	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case id := <-docs.updated:
			seen[id] = true
		case <-deadline:
			t.Fatalf("embedding run did not save all chunks, saved: %v", seen)
		}
	}
	if !seen["chunk_1"] || !seen["chunk_2"] {
		t.Errorf("unexpected chunks saved: %v", seen)
	}

	remaining, _ := docs.PendingChunks(context.Background(), 10)
	if len(remaining) != 0 {
		t.Errorf("%d chunks still pending after the run", len(remaining))
	}
}

func TestRunNow_EmbedFailureKeepsChunkPending(t *testing.T) {
	docs := newCoordinatorDocs(pendingChunks("chunk_1"))
	cfg := &common.ProcessingConfig{Enabled: true, Limit: 10}
	svc := NewCoordinatorService(docs, &chunkEmbedder{err: errors.New("embed quota exceeded")}, nil, cfg, common.GetLogger())

	svc.RunNow()

	select {
	case id := <-docs.updated:
		t.Errorf("chunk %s saved despite embedding failure", id)
	case <-time.After(200 * time.Millisecond):
	}

	remaining, _ := docs.PendingChunks(context.Background(), 10)
	if len(remaining) != 1 {
		t.Errorf("pending chunks = %d, want 1", len(remaining))
	}
}
