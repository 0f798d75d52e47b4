package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"NewsRelay/internal/ports"
	"NewsRelay/internal/retry"
)

// PipelineDeps wires all collaborators into the polling orchestration.
type PipelineDeps struct {
	Source      ports.FeedSource
	Gate        *TranslateGate
	Client      *DeliveryClient
	Queue       *RetryCoordinator
	Store       ports.TitleStore
	Logger      *slog.Logger
	Sleep       retry.Sleeper
	Countries   []string
	CountryWait time.Duration // pause after a failed country before the next one
}

// Pipeline runs one polling cycle over all configured countries. A
// single feed failure never aborts the cycle: each country is isolated,
// logged, and followed by a short pause before processing continues.
type Pipeline struct {
	source      ports.FeedSource
	gate        *TranslateGate
	client      *DeliveryClient
	queue       *RetryCoordinator
	store       ports.TitleStore
	logger      *slog.Logger
	sleep       retry.Sleeper
	countries   []string
	countryWait time.Duration
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.Sleep == nil {
		deps.Sleep = retry.Wait
	}
	if deps.CountryWait <= 0 {
		deps.CountryWait = 10 * time.Second
	}
	return &Pipeline{
		source:      deps.Source,
		gate:        deps.Gate,
		client:      deps.Client,
		queue:       deps.Queue,
		store:       deps.Store,
		logger:      deps.Logger,
		sleep:       deps.Sleep,
		countries:   deps.Countries,
		countryWait: deps.CountryWait,
	}
}

// RunCycle processes every configured country once. It returns an
// error only on cancellation; per-country failures are contained here.
func (p *Pipeline) RunCycle(ctx context.Context) error {
	for _, country := range p.countries {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := p.processCountry(ctx, country); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			p.logger.Error("country processing failed", "country", country, "error", err)
			if serr := p.sleep(ctx, p.countryWait); serr != nil {
				return serr
			}
		}
	}
	return nil
}

// processCountry drains stale failures first, so they take priority
// over fresh content, then pushes every fetched item not yet delivered.
func (p *Pipeline) processCountry(ctx context.Context, country string) error {
	p.logger.Info("fetching feed", "country", country)

	articles, err := p.source.Fetch(ctx, country)
	if err != nil {
		return err
	}
	p.logger.Info("fetched candidates", "country", country, "count", len(articles))

	if err := p.queue.Drain(ctx, p.client); err != nil {
		return err
	}

	for _, article := range articles {
		if p.store.Contains(article.Title) {
			p.logger.Debug("skipping already delivered", "title", truncateRunes(article.Title, 50))
			continue
		}

		p.logger.Info("new article", "country", country, "title", truncateRunes(article.Title, 50))
		article.Country = country
		article.Translated = p.gate.Translate(ctx, article.Title)

		delivered, err := p.client.Send(ctx, &article)
		if err != nil {
			return err
		}
		if delivered {
			if err := p.store.Record(article.Title); err != nil {
				return err
			}
		}
	}

	return nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
