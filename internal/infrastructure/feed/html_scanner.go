package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsRelay/internal/domain"
	"NewsRelay/internal/scanner"
)

// Selector keys understood by the HTML strategy.
const (
	selectorItem  = "item"
	selectorTitle = "title"
	selectorLink  = "link"
	selectorDate  = "date"
)

// HTMLScanner extracts headlines from plain HTML pages for sources that
// expose no feed. Configured per feed through CSS selectors.
type HTMLScanner struct {
	client *http.Client
}

// NewHTMLScanner wires an HTTP client; the timeout defaults to 10s.
func NewHTMLScanner(client *http.Client) *HTMLScanner {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTMLScanner{client: client}
}

// Name identifies the strategy inside the registry.
func (h *HTMLScanner) Name() string {
	return "html"
}

// Scan fetches the page and walks item nodes, resolving relative links
// against the page URL. Nodes without a title or link are dropped.
func (h *HTMLScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	doc, err := h.fetchDocument(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid page url %s: %w", req.URL, err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultItemLimit
	}

	itemSel := selectorOr(req.Selectors, selectorItem, "article")
	titleSel := selectorOr(req.Selectors, selectorTitle, "a")
	linkSel := selectorOr(req.Selectors, selectorLink, "a")
	dateSel := selectorOr(req.Selectors, selectorDate, "time")

	var articles []domain.Article
	doc.Find(itemSel).EachWithBreak(func(_ int, node *goquery.Selection) bool {
		title := strings.TrimSpace(node.Find(titleSel).First().Text())
		href, _ := node.Find(linkSel).First().Attr("href")
		href = strings.TrimSpace(href)
		if title == "" || href == "" {
			return true
		}

		link := href
		if parsed, err := url.Parse(href); err == nil {
			link = base.ResolveReference(parsed).String()
		}

		published := strings.TrimSpace(node.Find(dateSel).First().Text())
		if published == "" {
			published = domain.PublishedUnknown
		}

		articles = append(articles, domain.Article{
			Title:     title,
			Link:      link,
			Published: published,
		})
		return len(articles) < limit
	})

	return articles, nil
}

func (h *HTMLScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "NewsRelay/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	return doc, nil
}

func selectorOr(selectors map[string]string, key, fallback string) string {
	if v, ok := selectors[key]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}
