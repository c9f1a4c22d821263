// Package crawler fetches web pages and extracts their readable text
// for ingestion into the knowledge base.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoContent marks pages that fetched fine but yielded no usable text.
var ErrNoContent = errors.New("no content could be extracted")

const (
	fetchTimeout = 30 * time.Second
	userAgent    = "Mozilla/5.0 (compatible; KnowledgeHubBot/1.0)"

	// pages whose best candidate yields less than this many characters
	// are treated as having no extractable content
	minContentLength = 100
)

// content selectors tried in order of preference; body is the last resort
var contentSelectors = []string{
	"article",
	"main",
	`[role="main"]`,
	".content",
	".main-content",
	".post-content",
	".entry-content",
	"#content",
	"#main",
	"body",
}

// elements removed before text extraction
var noiseSelectors = []string{
	"script",
	"style",
	"nav",
	"header",
	"footer",
	"aside",
	".sidebar",
	".navigation",
	".menu",
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

// shared HTTP client for page fetches
var crawlHTTPClient = &http.Client{
	Timeout: fetchTimeout,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// Page holds the extracted content of a crawled URL.
type Page struct {
	URL          string
	Title        string
	Content      string
	LastModified time.Time
}

type Crawler struct {
	httpClient *http.Client
}

func New() *Crawler {
	return &Crawler{httpClient: crawlHTTPClient}
}

// Fetch downloads the page at url and extracts its title and main text.
// Returns an error when the page has no extractable content.
func (c *Crawler) Fetch(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s failed with status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}

	content := extractContent(doc)
	if content == "" {
		return nil, fmt.Errorf("%w from %s", ErrNoContent, url)
	}

	return &Page{
		URL:          url,
		Title:        extractTitle(doc),
		Content:      content,
		LastModified: extractLastModified(resp.Header.Get("Last-Modified"), doc),
	}, nil
}

// extractLastModified prefers the Last-Modified header, then the page's
// article:modified_time meta tag, then the crawl time.
func extractLastModified(header string, doc *goquery.Document) time.Time {
	if header != "" {
		if parsed, err := http.ParseTime(header); err == nil {
			return parsed.UTC()
		}
	}

	if meta, ok := doc.Find(`meta[property="article:modified_time"]`).Attr("content"); ok {
		if parsed, err := time.Parse(time.RFC3339, meta); err == nil {
			return parsed.UTC()
		}
	}

	return time.Now().UTC()
}

// extractContent strips boilerplate elements and returns the text of the
// first content selector that yields a substantial amount of text.
func extractContent(doc *goquery.Document) string {
	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	for _, sel := range contentSelectors {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}

		text := normalizeWhitespace(node.Text())
		if len(text) > minContentLength {
			return text
		}
	}

	return ""
}

// extractTitle prefers <title>, then og:title, then the first <h1>.
func extractTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}

	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og
		}
	}

	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}

	return "Untitled"
}

func normalizeWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}
