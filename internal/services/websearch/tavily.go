package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/oraculum/internal/interfaces"
)

const tavilyEndpoint = "https://api.tavily.com/search"

// TavilyClient calls the Tavily search API.
type TavilyClient struct {
	apiKey     string
	depth      string
	maxResults int
	client     *http.Client
	endpoint   string
}

// NewTavilyClient constructs a Tavily search client. Depth defaults to
// "basic" when empty.
func NewTavilyClient(apiKey, depth string, maxResults int, timeout time.Duration) *TavilyClient {
	if depth == "" {
		depth = "basic"
	}
	if maxResults <= 0 {
		maxResults = 5
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TavilyClient{
		apiKey:     apiKey,
		depth:      depth,
		maxResults: maxResults,
		client:     &http.Client{Timeout: timeout},
		endpoint:   tavilyEndpoint,
	}
}

// Search posts a query to Tavily and returns up to maxResults results.
func (t *TavilyClient) Search(ctx context.Context, query string) ([]interfaces.SearchResult, error) {
	if strings.TrimSpace(t.apiKey) == "" {
		return nil, errors.New("tavily: API key is missing")
	}

	body := map[string]any{
		"query":   query,
		"api_key": t.apiKey,
		"depth":   t.depth,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	var resp *http.Response
	delay := 1 * time.Second
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err = t.client.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		resp.Body.Close()

		// Back off and retry on 429, doubling the delay each time up to 30 s.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		if delay < 30*time.Second {
			delay *= 2
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily http %d", resp.StatusCode)
	}

	var response struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}

	results := make([]interfaces.SearchResult, 0, len(response.Results))
	for _, r := range response.Results {
		results = append(results, interfaces.SearchResult{Title: r.Title, URL: r.URL, Snippet: r.Content})
		if len(results) >= t.maxResults {
			break
		}
	}
	return results, nil
}
