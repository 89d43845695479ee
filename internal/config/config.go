package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port               string   `env:"PORT" envDefault:"8080"`
	LogLevelName       string   `env:"LOG_LEVEL" envDefault:"info"`
	HTTPTimeoutSeconds int      `env:"HTTP_TIMEOUT_SECONDS" envDefault:"15"`
	SheetURL           string   `env:"ADS_SHEET_URL"`
	ProxyURL           string   `env:"CORS_PROXY_URL"`
	FetchRetries       int      `env:"FETCH_RETRIES" envDefault:"3"`
	RedisURL           string   `env:"REDIS_URL"`
	CachePrefix        string   `env:"CACHE_PREFIX" envDefault:"wbads:"`
	CacheTTLSeconds    int      `env:"CACHE_TTL_SECONDS" envDefault:"300"`
	DefaultMarginPct   float64  `env:"DEFAULT_MARGIN_PCT" envDefault:"25"`
	DefaultMinClicks   int      `env:"DEFAULT_MIN_CLICKS_FOR_CR" envDefault:"30"`
	LookbackDays       int      `env:"DEFAULT_LOOKBACK_DAYS" envDefault:"4"`
	CORSOrigins        []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
	DisplayLocale      string   `env:"DISPLAY_LOCALE" envDefault:"ru"`
}

// FromEnv reads the process environment, after loading an optional .env
// file from the working directory.
func FromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse(env.Options{})
}

// Parse reads configuration using opts, e.g. a fixed Environment in tests.
func Parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.LookbackDays < 1 {
		return Config{}, fmt.Errorf("DEFAULT_LOOKBACK_DAYS must be >= 1, got %d", cfg.LookbackDays)
	}
	if cfg.DefaultMarginPct < 0 || cfg.DefaultMarginPct > 100 {
		return Config{}, fmt.Errorf("DEFAULT_MARGIN_PCT must be within 0..100, got %v", cfg.DefaultMarginPct)
	}
	return cfg, nil
}

func (c Config) HTTPTimeout() time.Duration { return time.Duration(c.HTTPTimeoutSeconds) * time.Second }

func (c Config) CacheTTL() time.Duration { return time.Duration(c.CacheTTLSeconds) * time.Second }

func (c Config) UseRedis() bool { return c.RedisURL != "" }

func (c Config) LogLevel() slog.Level {
	switch strings.ToLower(c.LogLevelName) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
