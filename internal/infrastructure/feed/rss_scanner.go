package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"NewsRelay/internal/domain"
	"NewsRelay/internal/scanner"
)

const defaultItemLimit = 5

// RSSScanner fetches RSS/Atom feeds and extracts the freshest entries.
type RSSScanner struct {
	parser *gofeed.Parser
}

// NewRSSScanner wires an HTTP client; the timeout defaults to 10s.
func NewRSSScanner(client *http.Client) *RSSScanner {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = "NewsRelay/1.0"
	return &RSSScanner{parser: parser}
}

// Name identifies the strategy inside the registry.
func (s *RSSScanner) Name() string {
	return "rss"
}

// Scan returns up to req.Limit of the most recent entries. Entries
// without a title or link are dropped; a missing publish timestamp
// defaults to "unknown".
func (s *RSSScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	parsed, err := s.parser.ParseURLWithContext(req.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", req.URL, err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultItemLimit
	}

	items := parsed.Items
	if len(items) > limit {
		items = items[:limit]
	}

	articles := make([]domain.Article, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			continue
		}

		published := strings.TrimSpace(item.Published)
		if published == "" && item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC().Format(time.RFC1123)
		}
		if published == "" {
			published = domain.PublishedUnknown
		}

		articles = append(articles, domain.Article{
			Title:     title,
			Link:      link,
			Published: published,
		})
	}

	return articles, nil
}
