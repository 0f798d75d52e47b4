package usecase

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"NewsRelay/internal/domain"
	"NewsRelay/internal/ports"
	"NewsRelay/internal/retry"
)

// enqueuer is the retry coordinator surface the delivery client needs.
type enqueuer interface {
	Enqueue(article domain.Article)
}

// DeliveryDeps wires the delivery client's collaborators. Policy, Sleep,
// Limiter and Now default sensibly when zero.
type DeliveryDeps struct {
	Messenger ports.Messenger
	Ledger    ports.StatusLedger
	Alerter   ports.AdminAlerter
	Queue     enqueuer
	Logger    *slog.Logger
	Policy    retry.Policy
	Sleep     retry.Sleeper
	Limiter   *rate.Limiter
	Now       func() time.Time
}

// DeliveryClient pushes one article to the channel with bounded retry
// and linear backoff, records the terminal outcome in the status
// ledger, and on exhaustion hands the article to the retry queue and
// alerts the admin.
type DeliveryClient struct {
	messenger ports.Messenger
	ledger    ports.StatusLedger
	alerter   ports.AdminAlerter
	queue     enqueuer
	logger    *slog.Logger
	policy    retry.Policy
	sleep     retry.Sleeper
	limiter   *rate.Limiter
	now       func() time.Time
}

// NewDeliveryClient constructs the client. Default schedule: three
// attempts with 5s, 10s, 15s pauses; outbound messages are paced at
// least messagePace apart.
func NewDeliveryClient(deps DeliveryDeps, messagePace time.Duration) *DeliveryClient {
	if deps.Policy.MaxAttempts == 0 {
		deps.Policy = retry.Policy{
			MaxAttempts: 3,
			Backoff:     retry.Linear(5 * time.Second),
		}
	}
	if deps.Sleep == nil {
		deps.Sleep = retry.Wait
	}
	if deps.Limiter == nil {
		if messagePace > 0 {
			deps.Limiter = rate.NewLimiter(rate.Every(messagePace), 1)
		} else {
			deps.Limiter = rate.NewLimiter(rate.Inf, 0)
		}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &DeliveryClient{
		messenger: deps.Messenger,
		ledger:    deps.Ledger,
		alerter:   deps.Alerter,
		queue:     deps.Queue,
		logger:    deps.Logger,
		policy:    deps.Policy,
		sleep:     deps.Sleep,
		limiter:   deps.Limiter,
		now:       deps.Now,
	}
}

// Send delivers one article. It mutates the article in place: every
// failed attempt increments RetryCount, cumulatively across calls. The
// returned error is a ledger write failure only; delivery failure
// itself is reported through the boolean.
func (d *DeliveryClient) Send(ctx context.Context, article *domain.Article) (bool, error) {
	if article.Translated == "" {
		article.Translated = article.Title
	}
	if article.Published == "" {
		article.Published = domain.PublishedUnknown
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return false, err
	}

	for attempt := 1; attempt <= d.policy.MaxAttempts; attempt++ {
		snippet, err := d.messenger.Send(ctx, *article)
		if err == nil {
			d.logger.Info("delivered article",
				"country", article.Country,
				"title", truncateRunes(article.Title, 50))
			return true, d.logStatus(ctx, article, domain.StateSuccess, &snippet)
		}

		d.logger.Warn("delivery failed",
			"attempt", attempt,
			"max", d.policy.MaxAttempts,
			"title", truncateRunes(article.Title, 50),
			"error", err)
		article.RetryCount++
		if serr := d.sleep(ctx, d.policy.Backoff(attempt)); serr != nil {
			break
		}
	}

	return false, d.logStatus(ctx, article, domain.StateFailed, nil)
}

// logStatus appends the terminal outcome exactly once per Send call.
// A failed outcome also enqueues the article for later redelivery and
// fires the admin alert.
func (d *DeliveryClient) logStatus(ctx context.Context, article *domain.Article, state domain.DeliveryState, snippet *string) error {
	record := domain.StatusRecord{
		Timestamp:  d.now(),
		Country:    article.Country,
		Original:   article.Title,
		Translated: article.Translated,
		State:      state,
		Retries:    article.RetryCount,
		Response:   snippet,
	}
	if err := d.ledger.Append(record); err != nil {
		return err
	}

	if state == domain.StateFailed {
		d.queue.Enqueue(*article)
		if err := d.alerter.Alert(ctx, *article); err != nil {
			d.logger.Error("admin alert failed", "error", err)
		}
	}

	return nil
}
