package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"NewsRelay/internal/domain"
	"NewsRelay/internal/retry"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubMessenger fails the first failures calls, then succeeds.
type stubMessenger struct {
	failures int
	calls    int
	sent     []domain.Article
	snippet  string
}

func (m *stubMessenger) Send(_ context.Context, article domain.Article) (string, error) {
	m.calls++
	if m.calls <= m.failures {
		return "", fmt.Errorf("transport down")
	}
	m.sent = append(m.sent, article)
	return m.snippet, nil
}

type stubTranslator struct {
	calls  int
	fail   int // fail the first N calls
	result func(text string) string
}

func (t *stubTranslator) Translate(_ context.Context, text string) (string, error) {
	t.calls++
	if t.calls <= t.fail {
		return "", fmt.Errorf("provider unavailable")
	}
	if t.result != nil {
		return t.result(text), nil
	}
	return text, nil
}

type stubLedger struct {
	records   []domain.StatusRecord
	appendErr error
}

func (l *stubLedger) Append(record domain.StatusRecord) error {
	if l.appendErr != nil {
		return l.appendErr
	}
	l.records = append(l.records, record)
	return nil
}

func (l *stubLedger) ReplayFailed() ([]domain.Article, error) {
	return nil, nil
}

type stubAlerter struct {
	calls int
	last  domain.Article
}

func (a *stubAlerter) Alert(_ context.Context, article domain.Article) error {
	a.calls++
	a.last = article
	return nil
}

type memStore struct {
	titles map[string]struct{}
}

func newMemStore() *memStore {
	return &memStore{titles: map[string]struct{}{}}
}

func (s *memStore) Contains(title string) bool {
	_, ok := s.titles[title]
	return ok
}

func (s *memStore) Record(title string) error {
	s.titles[title] = struct{}{}
	return nil
}

// newTestClient builds a delivery client with no real pacing or delays.
func newTestClient(messenger *stubMessenger, ledger *stubLedger, alerter *stubAlerter, queue *RetryCoordinator) *DeliveryClient {
	return NewDeliveryClient(DeliveryDeps{
		Messenger: messenger,
		Ledger:    ledger,
		Alerter:   alerter,
		Queue:     queue,
		Logger:    discardLogger(),
		Sleep:     retry.NoWait,
		Limiter:   rate.NewLimiter(rate.Inf, 0),
		Now:       func() time.Time { return time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC) },
	}, 0)
}
