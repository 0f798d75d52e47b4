package usecase

import (
	"context"
	"log/slog"

	"NewsRelay/internal/domain"
	"NewsRelay/internal/ports"
)

// defaultDrainBatch caps how many queued articles one drain may touch.
const defaultDrainBatch = 5

// defaultMaxRetries is the per-article attempt cap; anything at or
// above it is abandoned without further delivery.
const defaultMaxRetries = 3

// RetryCoordinator holds failed articles awaiting redelivery, keyed by
// title so an article can never be queued twice. The queue lives in
// memory and is rebuilt from the status ledger at startup.
type RetryCoordinator struct {
	store      ports.TitleStore
	logger     *slog.Logger
	drainBatch int
	maxRetries int

	order  []string
	queued map[string]domain.Article
}

// NewRetryCoordinator builds an empty queue. drainBatch <= 0 selects
// the default cap of 5 per drain.
func NewRetryCoordinator(store ports.TitleStore, drainBatch int, logger *slog.Logger) *RetryCoordinator {
	if drainBatch <= 0 {
		drainBatch = defaultDrainBatch
	}
	return &RetryCoordinator{
		store:      store,
		logger:     logger,
		drainBatch: drainBatch,
		maxRetries: defaultMaxRetries,
		queued:     map[string]domain.Article{},
	}
}

// Enqueue adds or refreshes an article. A title already queued keeps
// its position; the stored article is replaced so the latest retry
// count wins.
func (c *RetryCoordinator) Enqueue(article domain.Article) {
	if _, ok := c.queued[article.Title]; !ok {
		c.order = append(c.order, article.Title)
	}
	c.queued[article.Title] = article
}

// Len reports the queue depth.
func (c *RetryCoordinator) Len() int {
	return len(c.order)
}

// Contains reports whether a title is awaiting redelivery.
func (c *RetryCoordinator) Contains(title string) bool {
	_, ok := c.queued[title]
	return ok
}

// Drain redelivers up to the batch cap of queued articles. Titles the
// dedup store already knows are dropped without sending: a fresh copy
// may have been delivered while the article sat queued, and a title
// lives in at most one of the store and the queue. Articles at or
// above the retry cap are dropped with a skip log and no further
// alert. A successful redelivery removes the article and records its
// title in the dedup store; a failed one stays queued (the delivery
// client re-enqueues it with the advanced retry count). Only storage
// errors propagate.
func (c *RetryCoordinator) Drain(ctx context.Context, client *DeliveryClient) error {
	if len(c.order) == 0 {
		return nil
	}
	c.logger.Info("draining retry queue", "queued", len(c.order))

	batch := c.order
	if len(batch) > c.drainBatch {
		batch = batch[:c.drainBatch]
	}
	batch = append([]string(nil), batch...)

	for _, title := range batch {
		if err := ctx.Err(); err != nil {
			return err
		}

		article, ok := c.queued[title]
		if !ok {
			continue
		}

		if c.store.Contains(title) {
			c.logger.Info("dropping queued article, already delivered",
				"title", truncateRunes(title, 30))
			c.remove(title)
			continue
		}

		if article.RetryCount >= c.maxRetries {
			c.logger.Warn("abandoning article, retries exhausted",
				"title", truncateRunes(title, 30),
				"retries", article.RetryCount)
			c.remove(title)
			continue
		}

		delivered, err := client.Send(ctx, &article)
		if err != nil {
			return err
		}
		if delivered {
			c.remove(title)
			if err := c.store.Record(article.Title); err != nil {
				return err
			}
		}
	}

	return nil
}

func (c *RetryCoordinator) remove(title string) {
	delete(c.queued, title)
	for i, t := range c.order {
		if t == title {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
