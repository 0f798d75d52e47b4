package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "NEWSRELAY_CONFIG"
	botTokenEnv     = "TELEGRAM_BOT_TOKEN"
	channelEnv      = "TELEGRAM_CHANNEL"
	adminChatIDEnv  = "TELEGRAM_ADMIN_CHAT_ID"
	deeplAuthKeyEnv = "DEEPL_AUTH_KEY"
)

// Config holds high-level settings required across the application.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	DeepL    DeepLConfig    `yaml:"deepl"`
	Storage  StorageConfig  `yaml:"storage"`
	Pacing   PacingConfig   `yaml:"pacing"`
	Limits   LimitsConfig   `yaml:"limits"`
	Feeds    []FeedConfig   `yaml:"feeds"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TelegramConfig wires all data required to reach the Bot API.
type TelegramConfig struct {
	BotToken    string `yaml:"botToken"`
	Channel     string `yaml:"channel"` // channel username, without the leading @
	AdminChatID string `yaml:"adminChatId"`
	APIBase     string `yaml:"apiBase"`
}

// DeepLConfig defines how to contact the translation provider.
type DeepLConfig struct {
	Endpoint   string `yaml:"endpoint"`
	AuthKey    string `yaml:"authKey"`
	TargetLang string `yaml:"targetLang"`
}

// StorageConfig locates the durable title store and status ledger files.
type StorageConfig struct {
	TitlesPath string `yaml:"titlesPath"`
	LedgerPath string `yaml:"ledgerPath"`
}

// PacingConfig collects every deliberate pause in the polling loop.
type PacingConfig struct {
	Cycle        Duration `yaml:"cycle"`        // sleep between full polling cycles
	Message      Duration `yaml:"message"`      // minimum spacing between outbound channel messages
	CountryError Duration `yaml:"countryError"` // pause after a failed country before the next one
	GlobalError  Duration `yaml:"globalError"`  // pause after an aborted cycle before resuming
}

// LimitsConfig bounds per-cycle work.
type LimitsConfig struct {
	FeedItems  int `yaml:"feedItems"`  // freshest entries considered per feed
	DrainBatch int `yaml:"drainBatch"` // retry-queue articles processed per drain
}

// FeedConfig describes a single country source and its scanner strategy.
type FeedConfig struct {
	Country   string            `yaml:"country"`
	Scanner   string            `yaml:"scanner"`
	URL       string            `yaml:"url"`
	Selectors map[string]string `yaml:"selectors"`
}

// LoggingConfig controls the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Feeds) == 0 {
		cfg.Feeds = defaultConfig().Feeds
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(botTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}

	if v := os.Getenv(channelEnv); v != "" {
		c.Telegram.Channel = v
	}

	if v := os.Getenv(adminChatIDEnv); v != "" {
		c.Telegram.AdminChatID = v
	}

	if v := os.Getenv(deeplAuthKeyEnv); v != "" {
		c.DeepL.AuthKey = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Telegram.BotToken != "" {
		base.Telegram.BotToken = override.Telegram.BotToken
	}
	if override.Telegram.Channel != "" {
		base.Telegram.Channel = override.Telegram.Channel
	}
	if override.Telegram.AdminChatID != "" {
		base.Telegram.AdminChatID = override.Telegram.AdminChatID
	}
	if override.Telegram.APIBase != "" {
		base.Telegram.APIBase = override.Telegram.APIBase
	}

	if override.DeepL.Endpoint != "" {
		base.DeepL.Endpoint = override.DeepL.Endpoint
	}
	if override.DeepL.AuthKey != "" {
		base.DeepL.AuthKey = override.DeepL.AuthKey
	}
	if override.DeepL.TargetLang != "" {
		base.DeepL.TargetLang = override.DeepL.TargetLang
	}

	if override.Storage.TitlesPath != "" {
		base.Storage.TitlesPath = override.Storage.TitlesPath
	}
	if override.Storage.LedgerPath != "" {
		base.Storage.LedgerPath = override.Storage.LedgerPath
	}

	if override.Pacing.Cycle > 0 {
		base.Pacing.Cycle = override.Pacing.Cycle
	}
	if override.Pacing.Message > 0 {
		base.Pacing.Message = override.Pacing.Message
	}
	if override.Pacing.CountryError > 0 {
		base.Pacing.CountryError = override.Pacing.CountryError
	}
	if override.Pacing.GlobalError > 0 {
		base.Pacing.GlobalError = override.Pacing.GlobalError
	}

	if override.Limits.FeedItems > 0 {
		base.Limits.FeedItems = override.Limits.FeedItems
	}
	if override.Limits.DrainBatch > 0 {
		base.Limits.DrainBatch = override.Limits.DrainBatch
	}

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Telegram: TelegramConfig{
			APIBase: "https://api.telegram.org",
		},
		DeepL: DeepLConfig{
			Endpoint:   "https://api-free.deepl.com/v2/translate",
			TargetLang: "ZH",
		},
		Storage: StorageConfig{
			TitlesPath: "posted_titles.txt",
			LedgerPath: "send_status.log",
		},
		Pacing: PacingConfig{
			Cycle:        Duration(30 * time.Minute),
			Message:      Duration(3 * time.Second),
			CountryError: Duration(10 * time.Second),
			GlobalError:  Duration(60 * time.Second),
		},
		Limits: LimitsConfig{
			FeedItems:  5,
			DrainBatch: 5,
		},
		Feeds: []FeedConfig{
			{Country: "柬埔寨", Scanner: "rss", URL: "http://www.jianhuadaily.com/rss.xml"},
			{Country: "新加坡", Scanner: "rss", URL: "https://www.channelnewsasia.com/rssfeeds/8395986"},
			{Country: "泰国", Scanner: "rss", URL: "https://www.bangkokpost.com/rss/data/topstories.xml"},
			{Country: "越南", Scanner: "rss", URL: "https://e.vnexpress.net/rss/news.rss"},
			{Country: "缅甸", Scanner: "rss", URL: "https://www.irrawaddy.com/feed"},
			{Country: "老挝", Scanner: "rss", URL: "https://vientianetimes.org.la/rss"},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
