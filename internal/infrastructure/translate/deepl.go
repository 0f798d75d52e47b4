package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"NewsRelay/internal/config"
	"NewsRelay/internal/ports"
)

// DeepLClient implements ports.Translator against the DeepL REST API.
type DeepLClient struct {
	endpoint   string
	authKey    string
	targetLang string
	httpClient *http.Client
}

var _ ports.Translator = (*DeepLClient)(nil)

// NewDeepLClient builds a client from configuration.
func NewDeepLClient(cfg config.DeepLConfig) *DeepLClient {
	return &DeepLClient{
		endpoint:   cfg.Endpoint,
		authKey:    cfg.AuthKey,
		targetLang: cfg.TargetLang,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Translate performs a single translation call; retries live in the
// translate gate above this client.
func (c *DeepLClient) Translate(ctx context.Context, text string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("deepl client is nil")
	}
	if c.authKey == "" || c.endpoint == "" {
		return "", fmt.Errorf("deepl client misconfigured")
	}

	form := url.Values{}
	form.Set("text", text)
	form.Set("target_lang", c.targetLang)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.authKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("deepl error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var body struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(body.Translations) == 0 {
		return "", fmt.Errorf("deepl returned no translations")
	}

	return body.Translations[0].Text, nil
}
