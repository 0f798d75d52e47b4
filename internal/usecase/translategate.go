package usecase

import (
	"context"
	"log/slog"
	"time"

	"NewsRelay/internal/ports"
	"NewsRelay/internal/retry"
)

// translationFailedSuffix marks headlines the provider could not
// translate; delivery proceeds with the original text.
const translationFailedSuffix = " (translation failed)"

// cjkPrefixRunes is how much of a headline the language heuristic inspects.
const cjkPrefixRunes = 10

// TranslateGate decides whether a headline needs translation and
// performs it with bounded retry. Translation failure is non-fatal and
// never blocks delivery.
type TranslateGate struct {
	translator ports.Translator
	policy     retry.Policy
	sleep      retry.Sleeper
	logger     *slog.Logger
}

// NewTranslateGate wires the provider with the default backoff schedule
// (three attempts at 1s, 2s, 4s).
func NewTranslateGate(translator ports.Translator, logger *slog.Logger) *TranslateGate {
	return &TranslateGate{
		translator: translator,
		policy: retry.Policy{
			MaxAttempts: 3,
			Backoff:     retry.Exponential(time.Second),
		},
		sleep:  retry.Wait,
		logger: logger,
	}
}

// NeedsTranslation reports false when any of the first 10 runes is a
// CJK ideograph (U+4E00..U+9FFF). A heuristic detector, not exhaustive:
// a Chinese headline is assumed to start in Chinese.
func NeedsTranslation(text string) bool {
	seen := 0
	for _, r := range text {
		if r >= 0x4E00 && r <= 0x9FFF {
			return false
		}
		seen++
		if seen >= cjkPrefixRunes {
			break
		}
	}
	return true
}

// Translate returns the text unchanged when no translation is needed,
// the provider's result on success, or the text with a failure marker
// once attempts are exhausted.
func (g *TranslateGate) Translate(ctx context.Context, text string) string {
	if !NeedsTranslation(text) {
		g.logger.Debug("headline already Chinese, skipping translation")
		return text
	}

	for attempt := 1; attempt <= g.policy.MaxAttempts; attempt++ {
		translated, err := g.translator.Translate(ctx, text)
		if err == nil {
			g.logger.Info("translated headline",
				"original", truncateRunes(text, 20),
				"translated", truncateRunes(translated, 20))
			return translated
		}

		g.logger.Warn("translation failed",
			"attempt", attempt,
			"max", g.policy.MaxAttempts,
			"error", err)
		if serr := g.sleep(ctx, g.policy.Backoff(attempt)); serr != nil {
			break
		}
	}

	return text + translationFailedSuffix
}
