package feed

import (
	"context"
	"fmt"
	"log/slog"

	"NewsRelay/internal/config"
	"NewsRelay/internal/domain"
	"NewsRelay/internal/ports"
	"NewsRelay/internal/scanner"
)

// StrategySource implements ports.FeedSource via registered scanner
// strategies, keyed by country.
type StrategySource struct {
	registry *scanner.Registry
	feeds    map[string]config.FeedConfig
	limit    int
	logger   *slog.Logger
}

var _ ports.FeedSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry with config-defined feeds.
func NewStrategySource(reg *scanner.Registry, feeds []config.FeedConfig, limit int, log *slog.Logger) *StrategySource {
	byCountry := make(map[string]config.FeedConfig, len(feeds))
	for _, feed := range feeds {
		byCountry[feed.Country] = feed
	}
	return &StrategySource{
		registry: reg,
		feeds:    byCountry,
		limit:    limit,
		logger:   log,
	}
}

// Fetch runs the configured strategy for one country. Fetch and parse
// failures are logged and yield an empty list so that a broken feed
// never aborts a cycle; only configuration errors propagate.
func (s *StrategySource) Fetch(ctx context.Context, country string) ([]domain.Article, error) {
	feed, ok := s.feeds[country]
	if !ok {
		return nil, fmt.Errorf("no feed configured for country %s", country)
	}

	strategy, err := s.registry.Resolve(feed.Scanner)
	if err != nil {
		return nil, fmt.Errorf("country %s: %w", country, err)
	}

	articles, err := strategy.Scan(ctx, scanner.Request{
		Country:   country,
		URL:       feed.URL,
		Limit:     s.limit,
		Selectors: feed.Selectors,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Error("feed fetch failed", "country", country, "url", feed.URL, "error", err)
		return nil, nil
	}

	return articles, nil
}
