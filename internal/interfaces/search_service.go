package interfaces

import (
	"context"
)

// SearchResult is one web search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// WebSearchService is the boundary to the external search provider.
type WebSearchService interface {
	// Search returns snippets for the query, best first. Failures are
	// reported as ErrSearchUnavailable so the workflow can degrade.
	Search(ctx context.Context, query string) ([]SearchResult, error)
}
