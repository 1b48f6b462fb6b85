package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration. Every tuning knob of the rate
// pipeline (spread, precision, staleness) lives here and is passed down
// explicitly; nothing reads the environment after startup.
type Config struct {
	Port         string
	IsProduction bool

	// DatabaseURL is the PostgreSQL connection string for the rate store.
	DatabaseURL string

	// Quote source (currencylayer) settings.
	SourceBaseURL   string
	SourceAccessKey string

	// Basket is the default set of currency codes to quote.
	Basket []string

	// SpreadPct is the default spread in percentage points, applied when
	// a request does not carry its own.
	SpreadPct float64

	// Precision is the number of significant digits kept by all rate
	// arithmetic.
	Precision int32

	// StalenessThreshold is how much older than the latest quote a saved
	// rate may be before it is rewritten.
	StalenessThreshold time.Duration

	// PollInterval is the monitor's base polling cadence.
	PollInterval time.Duration

	// MonitorColor enables ANSI colors on the console monitor.
	MonitorColor bool

	// USDFirst lists codes displayed with the USD-per-foreign
	// orientation first. Formatting only.
	USDFirst []string

	// RateLimitSpec is the ulule/limiter formatted rate limit for the
	// HTTP API, e.g. "30-M" for 30 requests per minute.
	RateLimitSpec string
}

// LoadConfig loads configuration from environment variables and a .env
// file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("CL_BASE_URL", "http://api.currencylayer.com")
	viper.SetDefault("CL_KEY", "")
	viper.SetDefault("CURRENCIES", "EUR,GBP,CNY,CAD,AUD,JPY")
	viper.SetDefault("SPREAD", 1.0)
	viper.SetDefault("RATE_PRECISION", 6)
	viper.SetDefault("STALENESS_THRESHOLD", "24h")
	viper.SetDefault("POLL_INTERVAL", "60m")
	viper.SetDefault("MONITOR_COLOR", true)
	viper.SetDefault("USD_FIRST", "EUR,GBP,AUD,NZD,BTC")
	viper.SetDefault("RATE_LIMIT", "30-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.SourceBaseURL = viper.GetString("CL_BASE_URL")
	cfg.SourceAccessKey = viper.GetString("CL_KEY")
	if cfg.SourceAccessKey == "" {
		log.Println("Warning: CL_KEY environment variable not set. Quote fetches will be rejected by the provider.")
	}

	cfg.Basket = splitCodes(viper.GetString("CURRENCIES"))
	cfg.USDFirst = splitCodes(viper.GetString("USD_FIRST"))

	cfg.SpreadPct = viper.GetFloat64("SPREAD")
	if cfg.SpreadPct < 0.10 || cfg.SpreadPct > 2.0 {
		return nil, fmt.Errorf("SPREAD must be between 0.10 and 2.0 percentage points, got %v", cfg.SpreadPct)
	}

	cfg.Precision = viper.GetInt32("RATE_PRECISION")
	if cfg.Precision <= 0 {
		cfg.Precision = 6
		log.Printf("Warning: invalid RATE_PRECISION. Defaulting to %d.\n", cfg.Precision)
	}

	cfg.StalenessThreshold = parseDurationOr("STALENESS_THRESHOLD", 24*time.Hour)
	cfg.PollInterval = parseDurationOr("POLL_INTERVAL", time.Hour)
	cfg.MonitorColor = viper.GetBool("MONITOR_COLOR")
	cfg.RateLimitSpec = viper.GetString("RATE_LIMIT")

	return cfg, nil
}

// parseDurationOr reads a duration key, falling back when the value
// does not parse.
func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: invalid value for %s (%q). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}

// splitCodes splits a comma separated code list, trimming and
// upper-casing each entry.
func splitCodes(raw string) []string {
	parts := strings.Split(raw, ",")
	codes := make([]string, 0, len(parts))
	for _, part := range parts {
		code := strings.ToUpper(strings.TrimSpace(part))
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}
