package websearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
)

const maxFetchBytes = 2 << 20 // 2 MB cap per page

var excessiveNewlines = regexp.MustCompile(`\n{3,}`)

// PageFetcher downloads a result page and converts its main content to
// markdown for use as synthesis context.
type PageFetcher struct {
	client *http.Client
	logger arbor.ILogger
}

// NewPageFetcher creates a page fetcher
func NewPageFetcher(timeout time.Duration, logger arbor.ILogger) *PageFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &PageFetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// FetchMarkdown fetches the URL and returns its main content as markdown
func (f *PageFetcher) FetchMarkdown(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html")
	req.Header.Set("User-Agent", "oraculum/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: http %d", pageURL, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "text/html") {
		return "", fmt.Errorf("fetch %s: unsupported content type %s", pageURL, contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Remove chrome before conversion
	doc.Find("script, style, nav, footer, aside, header, form").Remove()

	content := doc.Find("main, article, .content, .main-content, #content, #main").First()
	if content.Length() == 0 {
		content = doc.Find("body")
	}

	converter := md.NewConverter(pageURL, true, nil)
	markdown := converter.Convert(content)
	markdown = excessiveNewlines.ReplaceAllString(markdown, "\n\n")
	markdown = strings.TrimSpace(markdown)

	f.logger.Debug().
		Str("url", pageURL).
		Int("markdown_chars", len(markdown)).
		Msg("Page fetched and converted")

	return markdown, nil
}
