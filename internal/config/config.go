package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port        string        `mapstructure:"port"`
	DatabaseURL string        `mapstructure:"database_url"`
	JWTSecret   string        `mapstructure:"jwt_secret"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`

	RateLimitSearchRaw string          `mapstructure:"rate_limit_search"`
	RateLimitSearch    RateLimitConfig `mapstructure:"-"`

	Store    StoreConfig    `mapstructure:"store"`
	Scraper  ScraperConfig  `mapstructure:"scraper"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Watchdog WatchdogConfig `mapstructure:"watchdog"`
	Log      LogConfig      `mapstructure:"log"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Driver      string `mapstructure:"driver"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	SupabaseURL string `mapstructure:"supabase_url"`
	SupabaseKey string `mapstructure:"supabase_key"`
}

// ScraperConfig covers discovery, website fetching and person search.
type ScraperConfig struct {
	Provider          string          `mapstructure:"provider"`
	PlacesAPIKey      string          `mapstructure:"places_api_key"`
	PlacesLanguage    string          `mapstructure:"places_language"`
	PlacesMaxResults  int             `mapstructure:"places_max_results"`
	LangSearchAPIKey  string          `mapstructure:"langsearch_api_key"`
	LangSearchRateRaw string          `mapstructure:"langsearch_rate_limit"`
	LangSearchRate    RateLimitConfig `mapstructure:"-"`
	DefaultCountry    string          `mapstructure:"default_country"`
	EnrichConcurrency int             `mapstructure:"enrich_concurrency"`
	PageTimeout       time.Duration   `mapstructure:"page_timeout"`
	MockDelay         time.Duration   `mapstructure:"mock_delay"`
}

// WorkerConfig sizes the background job pool.
type WorkerConfig struct {
	Count     int `mapstructure:"count"`
	QueueSize int `mapstructure:"queue_size"`
}

// WebhookConfig points at an external workflow that runs searches instead of the local pool.
type WebhookConfig struct {
	URL string `mapstructure:"url"`
}

// WatchdogConfig controls stale job detection.
type WatchdogConfig struct {
	StaleAfter time.Duration `mapstructure:"stale_after"`
	Interval   time.Duration `mapstructure:"interval"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// envBindings maps configuration keys to the environment variables operators set.
var envBindings = map[string]string{
	"port":                          "PORT",
	"database_url":                  "DATABASE_URL",
	"jwt_secret":                    "JWT_SECRET",
	"token_ttl":                     "TOKEN_TTL",
	"rate_limit_search":             "RATE_LIMIT_SEARCH",
	"store.driver":                  "STORE_DRIVER",
	"store.sqlite_path":             "SQLITE_PATH",
	"store.supabase_url":            "SUPABASE_URL",
	"store.supabase_key":            "SUPABASE_KEY",
	"scraper.provider":              "SCRAPER_PROVIDER",
	"scraper.places_api_key":        "GOOGLE_PLACES_API_KEY",
	"scraper.places_language":       "PLACES_LANGUAGE",
	"scraper.places_max_results":    "PLACES_MAX_RESULTS",
	"scraper.langsearch_api_key":    "LANGSEARCH_API_KEY",
	"scraper.langsearch_rate_limit": "LANGSEARCH_RATE_LIMIT",
	"scraper.default_country":       "DEFAULT_COUNTRY",
	"scraper.enrich_concurrency":    "ENRICH_CONCURRENCY",
	"scraper.page_timeout":          "PAGE_TIMEOUT",
	"scraper.mock_delay":            "MOCK_DELAY",
	"worker.count":                  "WORKER_COUNT",
	"worker.queue_size":             "WORKER_QUEUE_SIZE",
	"webhook.url":                   "WEBHOOK_URL",
	"watchdog.stale_after":          "STALE_JOB_TIMEOUT",
	"watchdog.interval":             "REAPER_INTERVAL",
	"log.level":                     "LOG_LEVEL",
	"log.format":                    "LOG_FORMAT",
}

// Load reads configuration from environment variables, an optional config.yaml,
// and applies sane defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, eris.Wrapf(err, "config: bind %s", env)
		}
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	rl, err := parseRateLimit(cfg.RateLimitSearchRaw)
	if err != nil {
		return nil, eris.Wrap(err, "config: invalid RATE_LIMIT_SEARCH value")
	}
	cfg.RateLimitSearch = rl

	if raw := strings.TrimSpace(cfg.Scraper.LangSearchRateRaw); raw != "" {
		rl, err := parseRateLimit(raw)
		if err != nil {
			return nil, eris.Wrap(err, "config: invalid LANGSEARCH_RATE_LIMIT value")
		}
		cfg.Scraper.LangSearchRate = rl
	}

	cfg.Scraper.DefaultCountry = strings.ToUpper(strings.TrimSpace(cfg.Scraper.DefaultCountry))
	cfg.Scraper.Provider = strings.ToLower(strings.TrimSpace(cfg.Scraper.Provider))
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("jwt_secret", "dev-secret")
	v.SetDefault("token_ttl", "24h")
	v.SetDefault("rate_limit_search", "5/min")

	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.sqlite_path", "leads.db")

	v.SetDefault("scraper.provider", "mock")
	v.SetDefault("scraper.places_language", "de")
	v.SetDefault("scraper.places_max_results", 20)
	v.SetDefault("scraper.default_country", "AT")
	v.SetDefault("scraper.enrich_concurrency", 5)
	v.SetDefault("scraper.page_timeout", "8s")
	v.SetDefault("scraper.mock_delay", "0s")

	v.SetDefault("worker.count", 4)
	v.SetDefault("worker.queue_size", 64)

	v.SetDefault("watchdog.stale_after", "10m")
	v.SetDefault("watchdog.interval", "1m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, eris.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, eris.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, eris.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}
