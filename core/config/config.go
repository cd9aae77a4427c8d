package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

// StoreConfig selects and configures the user record persistence backend.
type StoreConfig struct {
	// Backend is either "json" (flat file, default) or "postgres".
	Backend string `yaml:"backend" envconfig:"STORE_BACKEND"`
	// Path is the JSON store file location, used when Backend is "json".
	Path string `yaml:"path" envconfig:"STORE_PATH"`
}

// ContentConfig configures where hadith content comes from.
type ContentConfig struct {
	// Source is "local" (bundled collection file), "remote" (hadith CDN)
	// or "quran" (alquran.cloud ayahs).
	Source string `yaml:"source" envconfig:"CONTENT_SOURCE"`
	// Path points at the local collection JSON, used when Source is "local".
	Path string `yaml:"path" envconfig:"CONTENT_PATH"`
	// APIBase is the content API base URL for the remote sources.
	APIBase string `yaml:"api_base" envconfig:"CONTENT_API_BASE"`
	// Edition selects the hadith CDN edition (e.g. "eng-bukhari") or the
	// Quran translation edition (e.g. "ru.kuliev").
	Edition string `yaml:"edition" envconfig:"CONTENT_EDITION"`
	// Sections is the number of numbered sections the edition exposes.
	Sections int `yaml:"sections" envconfig:"CONTENT_SECTIONS"`
}

// RenderConfig controls the quote card renderer.
type RenderConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"RENDER_ENABLED"`
	// FontPath locates a TTF font used for card text.
	FontPath string `yaml:"font_path" envconfig:"RENDER_FONT_PATH"`
	// Backgrounds lists optional background image files; a gradient is used otherwise.
	Backgrounds []string `yaml:"backgrounds"`
	// PexelsAPIKey enables remote background photos; empty disables the fetcher.
	PexelsAPIKey string `yaml:"pexels_api_key" envconfig:"PEXELS_API_KEY"`
	// CacheSize bounds the rendered card cache; 0 -> default.
	CacheSize int `yaml:"cache_size"`
}

// ScheduleConfig pins the timezone used for all daily-time comparisons.
type ScheduleConfig struct {
	// Timezone is an IANA location name; empty means the system local zone.
	Timezone string `yaml:"timezone" envconfig:"SCHEDULE_TIMEZONE"`
}

// LocaleConfig sets language defaults for user-facing strings.
type LocaleConfig struct {
	// Default is the locale applied to new users; must be a supported code.
	Default string `yaml:"default" envconfig:"LOCALE_DEFAULT"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// StoreBackendJSON selects the flat-file user record store.
	StoreBackendJSON = "json"
	// StoreBackendPostgres selects the Postgres user record store.
	StoreBackendPostgres = "postgres"
)

const (
	// ContentSourceLocal selects the bundled collection file.
	ContentSourceLocal = "local"
	// ContentSourceRemote selects the hadith CDN provider.
	ContentSourceRemote = "remote"
	// ContentSourceQuran selects the alquran.cloud ayah provider.
	ContentSourceQuran = "quran"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
)

// DatabaseConfig holds Postgres connection settings for the user record
// store. It mirrors the database package's Config; keeping a local copy
// here leaves this package free of dependencies that log, which would
// otherwise close an import cycle through the logger.
type DatabaseConfig struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// RateLimitConfig holds settings for rate limiting.
// ExcludeUpdates accepts update types to bypass limiting:
// - "callback": Telegram callback button presses
// - "message": standard text messages
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// Config aggregates all bot configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Store     StoreConfig     `yaml:"store"`
	Content   ContentConfig   `yaml:"content"`
	Render    RenderConfig    `yaml:"render"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Locale    LocaleConfig    `yaml:"locale"`
	Database  DatabaseConfig  `yaml:"database"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	backend := strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	if backend == "" {
		backend = StoreBackendJSON
	}
	switch backend {
	case StoreBackendJSON:
		if strings.TrimSpace(cfg.Store.Path) == "" {
			cfg.Store.Path = "user_data.json"
		}
	case StoreBackendPostgres:
		if strings.TrimSpace(cfg.Database.Host) == "" {
			return fmt.Errorf("database.host is required when store.backend is 'postgres'")
		}
	default:
		return fmt.Errorf("invalid store.backend %q; allowed: json, postgres", cfg.Store.Backend)
	}
	cfg.Store.Backend = backend

	source := strings.ToLower(strings.TrimSpace(cfg.Content.Source))
	if source == "" {
		source = ContentSourceLocal
	}
	switch source {
	case ContentSourceLocal:
		if strings.TrimSpace(cfg.Content.Path) == "" {
			return fmt.Errorf("content.path is required when content.source is 'local'")
		}
	case ContentSourceRemote:
		if strings.TrimSpace(cfg.Content.APIBase) == "" {
			return fmt.Errorf("content.api_base is required when content.source is 'remote'")
		}
		if strings.TrimSpace(cfg.Content.Edition) == "" {
			cfg.Content.Edition = "eng-bukhari"
		}
		if cfg.Content.Sections <= 0 {
			cfg.Content.Sections = 100
		}
	case ContentSourceQuran:
		if strings.TrimSpace(cfg.Content.APIBase) == "" {
			cfg.Content.APIBase = "http://api.alquran.cloud/v1"
		}
		if strings.TrimSpace(cfg.Content.Edition) == "" {
			cfg.Content.Edition = "ru.kuliev"
		}
	default:
		return fmt.Errorf("invalid content.source %q; allowed: local, remote, quran", cfg.Content.Source)
	}
	cfg.Content.Source = source

	if cfg.Render.Enabled && strings.TrimSpace(cfg.Render.FontPath) == "" {
		return fmt.Errorf("render.font_path is required when render.enabled is true")
	}

	if _, err := ResolveLocation(cfg.Schedule.Timezone); err != nil {
		return err
	}

	allowed := map[string]struct{}{
		UpdateCallback: {},
		UpdateMessage:  {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}
	return nil
}
