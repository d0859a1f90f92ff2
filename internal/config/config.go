// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment override, e.g. EMAILX_FIRECRAWL_API_KEY.
const EnvPrefix = "EMAILX"

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Captcha   CaptchaConfig   `mapstructure:"captcha"`
	Firecrawl FirecrawlConfig `mapstructure:"firecrawl"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Extract   ExtractConfig   `mapstructure:"extract"`
	History   HistoryConfig   `mapstructure:"history"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig toggles zap development features and optional file output.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	File        string `mapstructure:"file"`
	MaxSizeMB   int    `mapstructure:"max_size_mb"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAgeDays  int    `mapstructure:"max_age_days"`
}

// CaptchaConfig configures Turnstile verification.
type CaptchaConfig struct {
	SecretKey string        `mapstructure:"secret_key"`
	Bypass    bool          `mapstructure:"bypass"`
	VerifyURL string        `mapstructure:"verify_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// FirecrawlConfig configures the content API client.
type FirecrawlConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig bounds how often one client may call the extraction endpoint.
type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RPS               float64       `mapstructure:"rps"`
	Burst             int           `mapstructure:"burst"`
	TTL               time.Duration `mapstructure:"ttl"`
	TrustProxyHeaders bool          `mapstructure:"trust_proxy_headers"`
}

// ExtractConfig tunes the email filter.
type ExtractConfig struct {
	BlockedDomains []string `mapstructure:"blocked_domains"`
}

// HistoryConfig enables the optional Postgres extraction history.
type HistoryConfig struct {
	DSN      string `mapstructure:"dsn"`
	Table    string `mapstructure:"table"`
	MaxConns int    `mapstructure:"max_conns"`
}

// Enabled reports whether history rows should be written.
func (h HistoryConfig) Enabled() bool {
	return h.DSN != ""
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Cloud Run and most PaaS hosts inject PORT.
	if err := v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT"); err != nil {
		return Config{}, fmt.Errorf("bind port env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout", 150*time.Second)
	v.SetDefault("server.read_header_timeout", 5*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)
	v.SetDefault("captcha.secret_key", "")
	v.SetDefault("captcha.bypass", false)
	v.SetDefault("captcha.verify_url", "https://challenges.cloudflare.com/turnstile/v0/siteverify")
	v.SetDefault("captcha.timeout", 10*time.Second)
	v.SetDefault("firecrawl.api_key", "")
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev")
	v.SetDefault("firecrawl.timeout", 120*time.Second)
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.rps", 1.0)
	v.SetDefault("ratelimit.burst", 10)
	v.SetDefault("ratelimit.ttl", 10*time.Minute)
	v.SetDefault("ratelimit.trust_proxy_headers", true)
	v.SetDefault("extract.blocked_domains", []string{})
	v.SetDefault("history.dsn", "")
	v.SetDefault("history.table", "extraction_history")
	v.SetDefault("history.max_conns", 4)
}

// Validate enforces required values and reasonable limits. Missing API secrets
// are allowed here; requests report them as server configuration errors.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be > 0")
	}
	if c.Firecrawl.Timeout <= 0 {
		return fmt.Errorf("firecrawl.timeout must be > 0")
	}
	if c.Captcha.Timeout <= 0 {
		return fmt.Errorf("captcha.timeout must be > 0")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			return fmt.Errorf("ratelimit.rps must be > 0 when rate limiting is enabled")
		}
		if c.RateLimit.Burst <= 0 {
			return fmt.Errorf("ratelimit.burst must be > 0 when rate limiting is enabled")
		}
	}
	if c.History.Enabled() {
		if c.History.Table == "" {
			return fmt.Errorf("history.table must be set when history.dsn is set")
		}
		if c.History.MaxConns <= 0 {
			return fmt.Errorf("history.max_conns must be > 0 when history.dsn is set")
		}
	}
	return nil
}
