package domain

import "time"

// PublishedUnknown is recorded when a feed entry carries no timestamp.
const PublishedUnknown = "unknown"

// Article is the unit of work moving through the relay pipeline.
// Its identity is the Title, which serves as the dedup key for
// deliver-once semantics.
type Article struct {
	Title      string
	Link       string
	Published  string // feed-provided timestamp text, PublishedUnknown when absent
	Country    string
	Translated string // defaults to Title until the translate gate runs
	RetryCount int    // cumulative failed delivery attempts, across cycles
}

// DeliveryState enumerates terminal send outcomes.
type DeliveryState string

const (
	StateSuccess DeliveryState = "success"
	StateFailed  DeliveryState = "failed"
)

// StatusRecord is one status-ledger entry: the terminal outcome of a
// single delivery call, not of each attempt within it.
type StatusRecord struct {
	Timestamp  time.Time     `json:"timestamp"`
	Country    string        `json:"country"`
	Original   string        `json:"original_title"`
	Translated string        `json:"translated_title"`
	State      DeliveryState `json:"state"`
	Retries    int           `json:"retries"`
	Response   *string       `json:"response"`
}

// Article rebuilds the queueable article a failed record stands for.
// The ledger does not persist the feed link, so a replayed article
// carries only what the record kept.
func (r StatusRecord) Article() Article {
	translated := r.Translated
	if translated == "" {
		translated = r.Original
	}
	return Article{
		Title:      r.Original,
		Published:  PublishedUnknown,
		Country:    r.Country,
		Translated: translated,
		RetryCount: r.Retries,
	}
}
