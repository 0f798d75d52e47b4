package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"NewsRelay/internal/config"
	"NewsRelay/internal/domain"
	"NewsRelay/internal/ports"
)

// AdminAlerter notifies the operator chat when an article is abandoned.
// It shares the Bot API transport with the Messenger but targets a
// fixed private chat and sends plain text.
type AdminAlerter struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

var _ ports.AdminAlerter = (*AdminAlerter)(nil)

// NewAdminAlerter registers bot token and the admin chat identifier.
func NewAdminAlerter(cfg config.TelegramConfig) *AdminAlerter {
	return &AdminAlerter{
		botToken: cfg.BotToken,
		chatID:   cfg.AdminChatID,
		apiBase:  cfg.APIBase,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Alert posts the failure summary. Callers log the returned error and
// move on; alerting is never retried.
func (a *AdminAlerter) Alert(ctx context.Context, article domain.Article) error {
	if a.botToken == "" || a.chatID == "" {
		return fmt.Errorf("admin alerter misconfigured")
	}

	text := fmt.Sprintf("🚨 推送失败警报\n国家：%s\n原标题：%s\n翻译标题：%s\n重试次数：%d",
		article.Country,
		truncateRunes(article.Title, 50),
		truncateRunes(article.Translated, 50),
		article.RetryCount)

	payload := map[string]any{
		"chat_id": a.chatID,
		"text":    text,
	}

	if _, err := postMessage(ctx, a.client, a.apiBase, a.botToken, payload); err != nil {
		return fmt.Errorf("notify admin: %w", err)
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
