package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsRelay/internal/config"
	"NewsRelay/internal/infrastructure/feed"
	"NewsRelay/internal/infrastructure/storage"
	"NewsRelay/internal/infrastructure/telegram"
	"NewsRelay/internal/infrastructure/translate"
	"NewsRelay/internal/logging"
	"NewsRelay/internal/retry"
	"NewsRelay/internal/scanner"
	"NewsRelay/internal/usecase"
)

// Application wires configuration to the pipeline and owns the
// resilient polling loop.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	store    *storage.TitleStore
	queue    *usecase.RetryCoordinator
}

// New builds the full runnable wiring: durable stores, feed scanners,
// translate gate, delivery client, and the retry queue reconciled
// against the status ledger.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.OpenTitleStore(cfg.Storage.TitlesPath)
	if err != nil {
		return nil, fmt.Errorf("load title store: %w", err)
	}
	ledger := storage.NewStatusLedger(cfg.Storage.LedgerPath)

	registry := scanner.NewRegistry()
	registry.Register(feed.NewRSSScanner(nil))
	registry.Register(feed.NewHTMLScanner(nil))
	source := feed.NewStrategySource(registry, cfg.Feeds, cfg.Limits.FeedItems,
		baseLogger.With("component", "source"))

	gate := usecase.NewTranslateGate(translate.NewDeepLClient(cfg.DeepL),
		baseLogger.With("component", "translate"))

	queue := usecase.NewRetryCoordinator(store, cfg.Limits.DrainBatch,
		baseLogger.With("component", "retryqueue"))

	client := usecase.NewDeliveryClient(usecase.DeliveryDeps{
		Messenger: telegram.NewMessenger(cfg.Telegram),
		Ledger:    ledger,
		Alerter:   telegram.NewAdminAlerter(cfg.Telegram),
		Queue:     queue,
		Logger:    baseLogger.With("component", "delivery"),
	}, cfg.Pacing.Message.Std())

	if err := seedRetryQueue(ledger, store, queue, baseLogger); err != nil {
		return nil, err
	}

	countries := make([]string, 0, len(cfg.Feeds))
	for _, fd := range cfg.Feeds {
		countries = append(countries, fd.Country)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:      source,
		Gate:        gate,
		Client:      client,
		Queue:       queue,
		Store:       store,
		Logger:      baseLogger.With("component", "pipeline"),
		Countries:   countries,
		CountryWait: cfg.Pacing.CountryError.Std(),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger.With("component", "app"),
		pipeline: pipeline,
		store:    store,
		queue:    queue,
	}, nil
}

// seedRetryQueue replays the ledger's latest failed outcomes, skipping
// anything the title store already knows: a title lives in at most one
// of the dedup store and the retry queue.
func seedRetryQueue(ledger *storage.StatusLedger, store *storage.TitleStore, queue *usecase.RetryCoordinator, logger *slog.Logger) error {
	replayed, err := ledger.ReplayFailed()
	if err != nil {
		return fmt.Errorf("replay status ledger: %w", err)
	}

	skipped := 0
	for _, article := range replayed {
		if store.Contains(article.Title) {
			skipped++
			continue
		}
		queue.Enqueue(article)
	}

	logger.Info("retry queue reconciled",
		"queued", queue.Len(),
		"already_delivered", skipped)
	return nil
}

// Run polls until the context is cancelled. Every cycle is recovered:
// an aborted cycle is logged and retried after a short pause so the
// process never exits except on interrupt.
func (a *Application) Run(ctx context.Context) error {
	a.logger.Info("relay started",
		"countries", len(a.cfg.Feeds),
		"known_titles", a.store.Len(),
		"queued_retries", a.queue.Len())

	for ctx.Err() == nil {
		err := a.safeCycle(ctx)
		if ctx.Err() != nil {
			break
		}

		pause := a.cfg.Pacing.Cycle.Std()
		if err != nil {
			a.logger.Error("cycle aborted", "error", err)
			pause = a.cfg.Pacing.GlobalError.Std()
		} else {
			a.logger.Info("cycle complete, sleeping", "pause", pause)
		}

		if werr := retry.Wait(ctx, pause); werr != nil {
			break
		}
	}

	a.logger.Info("relay stopped")
	return nil
}

// safeCycle converts panics into errors so one bad cycle cannot take
// the process down.
func (a *Application) safeCycle(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panicked: %v", r)
		}
	}()

	start := time.Now()
	if err := a.pipeline.RunCycle(ctx); err != nil {
		return err
	}
	a.logger.Debug("cycle finished", "took", time.Since(start))
	return nil
}
