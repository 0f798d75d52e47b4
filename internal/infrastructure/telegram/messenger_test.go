package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"NewsRelay/internal/config"
	"NewsRelay/internal/domain"
)

func testConfig(apiBase string) config.TelegramConfig {
	return config.TelegramConfig{
		BotToken:    "123:abc",
		Channel:     "seanews",
		AdminChatID: "42",
		APIBase:     apiBase,
	}
}

func TestMessengerSend(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/bot123:abc/sendMessage") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7}}`))
	}))
	defer server.Close()

	m := NewMessenger(testConfig(server.URL))
	article := domain.Article{
		Title:      "PM speaks",
		Translated: "总理发言",
		Link:       "http://example.org/1",
		Published:  "1 Mar 2025",
		Country:    "新加坡",
	}

	snippet, err := m.Send(context.Background(), article)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(snippet, `"ok":true`) {
		t.Fatalf("unexpected snippet: %s", snippet)
	}

	if captured["chat_id"] != "@seanews" {
		t.Fatalf("unexpected chat_id: %v", captured["chat_id"])
	}
	if captured["parse_mode"] != "HTML" {
		t.Fatalf("unexpected parse_mode: %v", captured["parse_mode"])
	}
	if captured["disable_web_page_preview"] != true {
		t.Fatal("link preview must be disabled")
	}

	text, _ := captured["text"].(string)
	for _, want := range []string{"<b>总理发言</b>", "PM speaks", "1 Mar 2025", "http://example.org/1", "新加坡"} {
		if !strings.Contains(text, want) {
			t.Fatalf("message text missing %q:\n%s", want, text)
		}
	}
}

func TestMessengerNonOKReturnsSnippetAndError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Too Many Requests"}`))
	}))
	defer server.Close()

	m := NewMessenger(testConfig(server.URL))
	snippet, err := m.Send(context.Background(), domain.Article{Title: "t", Translated: "t"})
	if err == nil {
		t.Fatal("expected error on 429")
	}
	if !strings.Contains(snippet, "Too Many Requests") {
		t.Fatalf("snippet must carry the response body, got %q", snippet)
	}
}

func TestMessengerSnippetTruncated(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 1000)))
	}))
	defer server.Close()

	m := NewMessenger(testConfig(server.URL))
	snippet, err := m.Send(context.Background(), domain.Article{Title: "t", Translated: "t"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if utf8.RuneCountInString(snippet) != responseSnippetLimit {
		t.Fatalf("expected snippet of %d runes, got %d", responseSnippetLimit, utf8.RuneCountInString(snippet))
	}
}

func TestMessengerMisconfigured(t *testing.T) {
	t.Parallel()

	m := NewMessenger(config.TelegramConfig{})
	if _, err := m.Send(context.Background(), domain.Article{Title: "t"}); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}

func TestAdminAlerter(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	a := NewAdminAlerter(testConfig(server.URL))
	article := domain.Article{
		Title:      strings.Repeat("长", 80),
		Translated: "t",
		Country:    "缅甸",
		RetryCount: 3,
	}
	if err := a.Alert(context.Background(), article); err != nil {
		t.Fatalf("alert: %v", err)
	}

	if captured["chat_id"] != "42" {
		t.Fatalf("alert must target the admin chat, got %v", captured["chat_id"])
	}
	text, _ := captured["text"].(string)
	if !strings.Contains(text, "重试次数：3") {
		t.Fatalf("alert text missing retry count:\n%s", text)
	}
	if strings.Contains(text, strings.Repeat("长", 51)) {
		t.Fatal("title must be truncated to 50 runes")
	}
}
