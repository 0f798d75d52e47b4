package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"NewsRelay/internal/domain"
	"NewsRelay/internal/scanner"
)

func rssBody(items int) string {
	body := `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>Top Stories</title>`
	for i := 1; i <= items; i++ {
		pubDate := ""
		if i != 2 {
			pubDate = fmt.Sprintf("<pubDate>Sat, 0%d Mar 2025 10:00:00 GMT</pubDate>", i%7+1)
		}
		body += fmt.Sprintf("<item><title>Story %d</title><link>http://example.org/%d</link>%s</item>", i, i, pubDate)
	}
	return body + "</channel></rss>"
}

func TestRSSScannerScan(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssBody(7)))
	}))
	defer server.Close()

	sc := NewRSSScanner(server.Client())
	articles, err := sc.Scan(context.Background(), scanner.Request{
		Country: "泰国",
		URL:     server.URL,
		Limit:   5,
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(articles) != 5 {
		t.Fatalf("expected 5 articles, got %d", len(articles))
	}
	if articles[0].Title != "Story 1" {
		t.Fatalf("unexpected first title: %s", articles[0].Title)
	}
	if articles[0].Link != "http://example.org/1" {
		t.Fatalf("unexpected link: %s", articles[0].Link)
	}
	if articles[1].Published != domain.PublishedUnknown {
		t.Fatalf("missing pubDate must default to %q, got %q", domain.PublishedUnknown, articles[1].Published)
	}
	if articles[0].Published == domain.PublishedUnknown {
		t.Fatalf("present pubDate must be kept, got %q", articles[0].Published)
	}
}

func TestRSSScannerPropagatesParseError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sc := NewRSSScanner(server.Client())
	if _, err := sc.Scan(context.Background(), scanner.Request{URL: server.URL, Limit: 5}); err == nil {
		t.Fatal("expected error from broken feed")
	}
}
