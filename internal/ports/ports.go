package ports

import (
	"context"

	"NewsRelay/internal/domain"
)

// FeedSource fetches the most recent candidate items for one configured country.
type FeedSource interface {
	Fetch(ctx context.Context, country string) ([]domain.Article, error)
}

// Translator calls the external translation provider once; bounded
// retries live above it in the translate gate.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Messenger posts one formatted message to the channel. It returns a
// truncated snippet of the raw API response for the status ledger,
// which is populated on both success and HTTP-level failure.
type Messenger interface {
	Send(ctx context.Context, article domain.Article) (snippet string, err error)
}

// AdminAlerter notifies the operator that an article was permanently
// abandoned. Callers treat it as fire-and-forget: errors are logged,
// never retried.
type AdminAlerter interface {
	Alert(ctx context.Context, article domain.Article) error
}

// TitleStore is the dedup authority: a title present here has been
// delivered successfully at least once and must never be re-delivered.
type TitleStore interface {
	Contains(title string) bool
	Record(title string) error
}

// StatusLedger is the append-only audit trail of delivery outcomes and
// the source of truth for rebuilding the retry queue after a restart.
type StatusLedger interface {
	Append(record domain.StatusRecord) error
	ReplayFailed() ([]domain.Article, error)
}
