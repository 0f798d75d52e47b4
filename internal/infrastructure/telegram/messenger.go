package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"NewsRelay/internal/config"
	"NewsRelay/internal/domain"
	"NewsRelay/internal/ports"
)

// responseSnippetLimit caps how much of the raw API response the status
// ledger keeps per outcome.
const responseSnippetLimit = 200

// Messenger posts channel messages via the Telegram Bot API.
type Messenger struct {
	botToken string
	channel  string
	apiBase  string
	client   *http.Client
}

var _ ports.Messenger = (*Messenger)(nil)

// NewMessenger registers bot token and channel identifier.
func NewMessenger(cfg config.TelegramConfig) *Messenger {
	return &Messenger{
		botToken: cfg.BotToken,
		channel:  cfg.Channel,
		apiBase:  cfg.APIBase,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Send formats the article and posts it with HTML markup and link
// previews disabled. The returned snippet is the raw API response
// truncated for the ledger; it is populated even when the call fails
// with a non-2xx status.
func (m *Messenger) Send(ctx context.Context, article domain.Article) (string, error) {
	if m.botToken == "" || m.channel == "" {
		return "", fmt.Errorf("telegram messenger misconfigured")
	}

	payload := map[string]any{
		"chat_id":                  "@" + m.channel,
		"text":                     formatMessage(article),
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}

	snippet, err := postMessage(ctx, m.client, m.apiBase, m.botToken, payload)
	if err != nil {
		return snippet, fmt.Errorf("send message: %w", err)
	}
	return snippet, nil
}

func formatMessage(a domain.Article) string {
	return fmt.Sprintf("📢【%s新闻】<b>%s</b>\n🔤 原文：%s\n📅 发布时间：%s\n👉 阅读原文：%s",
		a.Country,
		html.EscapeString(a.Translated),
		html.EscapeString(a.Title),
		a.Published,
		a.Link)
}

func postMessage(ctx context.Context, client *http.Client, apiBase, botToken string, payload map[string]any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", apiBase, botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	snippet := readSnippet(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return snippet, fmt.Errorf("telegram error: %s", resp.Status)
	}

	return snippet, nil
}

func readSnippet(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 4096))
	runes := []rune(string(raw))
	if len(runes) > responseSnippetLimit {
		runes = runes[:responseSnippetLimit]
	}
	return string(runes)
}
