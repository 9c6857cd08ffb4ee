// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

type Config struct {
	// HTTP Server
	Port               string   `env:"PORT" envDefault:"8081"`
	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
	TrustedProxies     []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Database
	SQLiteDBPath string `env:"SQLITE_DB_PATH" envDefault:"./data/pennywise.db"`

	// Calendar used for week windows and daily awards
	TimeZone string `env:"APP_TIMEZONE" envDefault:"Asia/Kolkata"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	AMQP   AMQP
	Cache  Cache
	Gemini Gemini
	Google Google

	TargetPercent int64         `env:"TARGET_PERCENT" envDefault:"50"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"720h"`

	// Worker schedules; empty disables the job.
	WeeklyReconcileCron string `env:"WEEKLY_RECONCILE_CRON"`
	PredictionCron      string `env:"PREDICTION_CRON"`
}

type AMQP struct {
	URL      string `env:"AMQP_URL"`
	Exchange string `env:"AMQP_EXCHANGE" envDefault:"pennywise"`
	Queue    string `env:"AMQP_QUEUE" envDefault:"ledger_events"`
}

type Cache struct {
	RedisURL string        `env:"REDIS_URL"`
	TTL      time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	Size     int           `env:"CACHE_SIZE" envDefault:"1000"`
}

type Gemini struct {
	APIKey  string        `env:"GEMINI_API_KEY"`
	Model   string        `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	Timeout time.Duration `env:"CATEGORIZER_TIMEOUT" envDefault:"5s"`
}

type Google struct {
	SpreadsheetID      string `env:"GOOGLE_SPREADSHEET_ID"`
	SheetName          string `env:"GOOGLE_SHEET_NAME" envDefault:"Ledger"`
	ServiceAccountFile string `env:"GOOGLE_SERVICE_ACCOUNT_FILE"`
	ServiceAccountJSON string `env:"GOOGLE_SERVICE_ACCOUNT_JSON"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Location resolves TimeZone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SheetsEnabled reports whether ledger rows should be exported.
func (c *Config) SheetsEnabled() bool {
	return c.Google.SpreadsheetID != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RateLimitPerMinute < 1 {
		errs = append(errs, fmt.Sprintf("invalid RATE_LIMIT_PER_MINUTE %d: must be at least 1", c.RateLimitPerMinute))
	}
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(strings.TrimSpace(cidr)); err != nil {
			errs = append(errs, fmt.Sprintf("invalid TRUSTED_PROXIES entry '%s': must be a CIDR", cidr))
		}
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
			}
		}
	}

	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		errs = append(errs, fmt.Sprintf("invalid APP_TIMEZONE '%s': %v", c.TimeZone, err))
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if c.AMQP.URL != "" {
		if parsedURL, err := url.Parse(c.AMQP.URL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQP.URL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQP.Exchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQP.Queue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.Cache.RedisURL != "" {
		if u, err := url.Parse(c.Cache.RedisURL); err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
			errs = append(errs, fmt.Sprintf("invalid REDIS_URL '%s': must be redis:// or rediss://", c.Cache.RedisURL))
		}
	}
	if c.Cache.TTL < time.Second {
		errs = append(errs, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.Cache.TTL))
	}
	if c.Cache.Size < 1 {
		errs = append(errs, fmt.Sprintf("invalid cache size %d: must be at least 1", c.Cache.Size))
	}

	if c.Gemini.Timeout <= 0 || c.Gemini.Timeout > time.Minute {
		errs = append(errs, fmt.Sprintf("invalid categorizer timeout %v: must be between 0 and 1 minute", c.Gemini.Timeout))
	}

	if c.TargetPercent < 1 || c.TargetPercent > 100 {
		errs = append(errs, fmt.Sprintf("invalid target percent %d: must be between 1 and 100", c.TargetPercent))
	}
	if c.SessionTTL < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}

	if c.SheetsEnabled() {
		if c.Google.SheetName == "" {
			errs = append(errs, "Google Sheet name is required when GOOGLE_SPREADSHEET_ID is set")
		}
		if c.Google.ServiceAccountFile == "" && c.Google.ServiceAccountJSON == "" {
			errs = append(errs, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON must be provided for sheets export")
		}
		if c.Google.ServiceAccountFile != "" {
			if _, err := os.Stat(c.Google.ServiceAccountFile); os.IsNotExist(err) {
				errs = append(errs, fmt.Sprintf("Google service account file does not exist: %s", c.Google.ServiceAccountFile))
			}
		}
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	for name, spec := range map[string]string{
		"WEEKLY_RECONCILE_CRON": c.WeeklyReconcileCron,
		"PREDICTION_CRON":       c.PredictionCron,
	} {
		if spec == "" {
			continue
		}
		if _, err := parser.Parse(spec); err != nil {
			errs = append(errs, fmt.Sprintf("invalid %s '%s': %v", name, spec, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}
