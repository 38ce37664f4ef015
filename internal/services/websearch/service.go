package websearch

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/oraculum/internal/common"
	"github.com/ternarybob/oraculum/internal/interfaces"
	"golang.org/x/time/rate"
)

const maxSnippetChars = 4000

// Service performs web searches through Tavily and optionally enriches
// top results with the full page content converted to markdown.
type Service struct {
	tavily  *TavilyClient
	fetcher *PageFetcher
	config  *common.WebSearchConfig
	limiter *rate.Limiter
	logger  arbor.ILogger
}

// NewService creates a web search service
func NewService(config *common.WebSearchConfig, logger arbor.ILogger) *Service {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Every(config.RateLimit.Std()), 1)
	}

	return &Service{
		tavily:  NewTavilyClient(config.APIKey, config.Depth, config.MaxResults, config.RequestTimeout.Std()),
		fetcher: NewPageFetcher(config.RequestTimeout.Std(), logger),
		config:  config,
		limiter: limiter,
		logger:  logger,
	}
}

// Search queries Tavily and returns ranked results. Provider failures
// are wrapped in ErrSearchUnavailable.
func (s *Service) Search(ctx context.Context, query string) ([]interfaces.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is empty")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	results, err := s.tavily.Search(ctx, query)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("Web search failed")
		return nil, fmt.Errorf("%w: %v", interfaces.ErrSearchUnavailable, err)
	}

	s.logger.Info().
		Str("query", query).
		Int("results", len(results)).
		Msg("Web search completed")

	if s.config.FetchContent {
		s.enrichResults(ctx, results)
	}

	return results, nil
}

// enrichResults replaces top-N snippets with full page markdown when
// the page can be fetched. Fetch failures keep the original snippet.
func (s *Service) enrichResults(ctx context.Context, results []interfaces.SearchResult) {
	topN := s.config.FetchTopN
	if topN <= 0 {
		topN = 2
	}
	if topN > len(results) {
		topN = len(results)
	}

	for i := 0; i < topN; i++ {
		markdown, err := s.fetcher.FetchMarkdown(ctx, results[i].URL)
		if err != nil {
			s.logger.Debug().
				Err(err).
				Str("url", results[i].URL).
				Msg("Page enrichment skipped")
			continue
		}
		if markdown == "" {
			continue
		}
		if len(markdown) > maxSnippetChars {
			markdown = markdown[:maxSnippetChars]
		}
		results[i].Snippet = markdown
	}
}
