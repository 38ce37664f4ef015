package agent

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/oraculum/internal/common"
	"github.com/ternarybob/oraculum/internal/interfaces"
	"github.com/ternarybob/oraculum/internal/models"
)

// Retriever embeds the query and ranks knowledge-base chunks against
// it. Any backing failure surfaces as ErrRetrievalUnavailable; the
// workflow treats that as insufficient context, not a hard error.
type Retriever struct {
	embedder  interfaces.EmbeddingService
	documents interfaces.DocumentService
	config    *common.RetrievalConfig
	logger    arbor.ILogger
}

// NewRetriever creates a knowledge retriever
func NewRetriever(
	embedder interfaces.EmbeddingService,
	documents interfaces.DocumentService,
	config *common.RetrievalConfig,
	logger arbor.ILogger,
) *Retriever {
	return &Retriever{
		embedder:  embedder,
		documents: documents,
		config:    config,
		logger:    logger,
	}
}

// Retrieve returns the top-K passages most similar to the query,
// descending by similarity. Passages below the configured similarity
// floor are dropped.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]models.RetrievedPassage, error) {
	embedding, err := r.embedder.GenerateQueryEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query embedding failed: %v", interfaces.ErrRetrievalUnavailable, err)
	}

	k := r.config.MaxPassages
	if k <= 0 {
		k = 5
	}

	scored, err := r.documents.VectorSearch(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrRetrievalUnavailable, err)
	}

	passages := make([]models.RetrievedPassage, 0, len(scored))
	for _, sc := range scored {
		if sc.Score < r.config.MinSimilarity {
			continue
		}
		passages = append(passages, models.RetrievedPassage{
			Content:          sc.Chunk.Content,
			SimilarityScore:  sc.Score,
			SourceDocumentID: sc.Chunk.DocumentID,
		})
	}

	r.logger.Debug().
		Int("ranked", len(scored)).
		Int("kept", len(passages)).
		Msg("Knowledge retrieval completed")

	return passages, nil
}
