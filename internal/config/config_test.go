package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(botTokenEnv, "")
	t.Setenv(channelEnv, "")
	t.Setenv(adminChatIDEnv, "")
	t.Setenv(deeplAuthKeyEnv, "")

	cfg := Load()

	if len(cfg.Feeds) != 6 {
		t.Fatalf("expected 6 default feeds, got %d", len(cfg.Feeds))
	}
	if cfg.Pacing.Cycle.Std() != 30*time.Minute {
		t.Fatalf("unexpected cycle pause: %v", cfg.Pacing.Cycle.Std())
	}
	if cfg.Limits.FeedItems != 5 || cfg.Limits.DrainBatch != 5 {
		t.Fatalf("unexpected limits: %+v", cfg.Limits)
	}
	if cfg.DeepL.TargetLang != "ZH" {
		t.Fatalf("unexpected target lang: %s", cfg.DeepL.TargetLang)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	raw := `
telegram:
  channel: filechannel
pacing:
  cycle: 1m
  message: 1s
feeds:
  - country: 泰国
    scanner: rss
    url: http://example.org/rss.xml
logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(botTokenEnv, "token-from-env")
	t.Setenv(channelEnv, "")
	t.Setenv(adminChatIDEnv, "")
	t.Setenv(deeplAuthKeyEnv, "key-from-env")

	cfg := Load()

	if cfg.Telegram.Channel != "filechannel" {
		t.Fatalf("file override lost: %s", cfg.Telegram.Channel)
	}
	if cfg.Telegram.BotToken != "token-from-env" {
		t.Fatalf("env override lost: %s", cfg.Telegram.BotToken)
	}
	if cfg.DeepL.AuthKey != "key-from-env" {
		t.Fatalf("deepl env override lost: %s", cfg.DeepL.AuthKey)
	}
	if cfg.Pacing.Cycle.Std() != time.Minute {
		t.Fatalf("cycle duration not parsed: %v", cfg.Pacing.Cycle.Std())
	}
	// Unset pacing values keep their defaults.
	if cfg.Pacing.GlobalError.Std() != 60*time.Second {
		t.Fatalf("default global error pause lost: %v", cfg.Pacing.GlobalError.Std())
	}
	if len(cfg.Feeds) != 1 || cfg.Feeds[0].Country != "泰国" {
		t.Fatalf("feed override lost: %+v", cfg.Feeds)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("logging override lost: %s", cfg.Logging.Level)
	}
}

func TestDurationRejectsNegative(t *testing.T) {
	t.Parallel()

	var cfg Config
	if err := yaml.Unmarshal([]byte("pacing: {cycle: -5s}"), &cfg); err == nil {
		t.Fatal("expected error for negative duration")
	}
}

func TestDurationRoundTrip(t *testing.T) {
	t.Parallel()

	var cfg Config
	if err := yaml.Unmarshal([]byte("pacing: {cycle: 30m, message: 3s}"), &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cfg.Pacing.Cycle.Std() != 30*time.Minute {
		t.Fatalf("unexpected cycle: %v", cfg.Pacing.Cycle.Std())
	}
	if cfg.Pacing.Message.Std() != 3*time.Second {
		t.Fatalf("unexpected message pace: %v", cfg.Pacing.Message.Std())
	}

	out, err := yaml.Marshal(cfg.Pacing)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var again PacingConfig
	if err := yaml.Unmarshal(out, &again); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if again != cfg.Pacing {
		t.Fatalf("pacing changed across round trip: %+v vs %+v", again, cfg.Pacing)
	}
}
