// Package config handles configuration loading for cleanmind.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for every environment override.
const EnvPrefix = "CLEANMIND"

// Config represents the complete application configuration.
type Config struct {
	API       APIConfig       `mapstructure:"api"       yaml:"api"       json:"api"`
	CoinGecko CoinGeckoConfig `mapstructure:"coingecko" yaml:"coingecko" json:"coingecko"`
	Dashboard DashboardConfig `mapstructure:"dashboard" yaml:"dashboard" json:"dashboard"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"   json:"logging"`
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"         json:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"         json:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins" json:"cors_origins"`
}

// CoinGeckoConfig holds upstream market-data API settings.
type CoinGeckoConfig struct {
	BaseURL           string `mapstructure:"base_url"            yaml:"base_url"            json:"base_url"`
	APIKey            string `mapstructure:"api_key"             yaml:"api_key"             json:"-"`
	KeyType           string `mapstructure:"key_type"            yaml:"key_type"            json:"key_type"` // "demo" or "pro"
	UserAgent         string `mapstructure:"user_agent"          yaml:"user_agent"          json:"user_agent"`
	TimeoutSec        int    `mapstructure:"timeout_sec"         yaml:"timeout_sec"         json:"timeout_sec"`
	TransportRetries  int    `mapstructure:"transport_retries"   yaml:"transport_retries"   json:"transport_retries"`
	NFTMinIntervalMs  int    `mapstructure:"nft_min_interval_ms" yaml:"nft_min_interval_ms" json:"nft_min_interval_ms"`
	NFTRetryWaitSec   int    `mapstructure:"nft_retry_wait_sec"  yaml:"nft_retry_wait_sec"  json:"nft_retry_wait_sec"`
	NFTRateLimitRetry int    `mapstructure:"nft_rate_limit_retries" yaml:"nft_rate_limit_retries" json:"nft_rate_limit_retries"`
}

// Timeout returns the per-request upstream timeout.
func (c CoinGeckoConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// NFTMinInterval returns the minimum gap between NFT dispatches.
func (c CoinGeckoConfig) NFTMinInterval() time.Duration {
	return time.Duration(c.NFTMinIntervalMs) * time.Millisecond
}

// NFTRetryWait returns the wait before repeating a rate-limited NFT call.
func (c CoinGeckoConfig) NFTRetryWait() time.Duration {
	return time.Duration(c.NFTRetryWaitSec) * time.Second
}

// DashboardConfig holds settings for the data-access layer and page views.
// An empty GatewayURL means the gateway of this server; see
// Config.GatewayURL.
type DashboardConfig struct {
	GatewayURL string `mapstructure:"gateway_url" yaml:"gateway_url" json:"gateway_url"`
	PageSize   int    `mapstructure:"page_size"   yaml:"page_size"   json:"page_size"`
	Currency   string `mapstructure:"currency"    yaml:"currency"    json:"currency"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"  json:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format" json:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.cleanmind/config.yaml (home directory)
//  3. /etc/cleanmind/config.yaml (system)
//
// Environment variables override config file values.
// Format: CLEANMIND_<SECTION>_<KEY>, e.g., CLEANMIND_COINGECKO_API_KEY
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".cleanmind"))
	v.AddConfigPath("/etc/cleanmind")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return decode(v)
}

// Default returns the configuration built from defaults and environment only.
func Default() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		return &Config{}
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets defaults for all config values.
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Upstream defaults
	v.SetDefault("coingecko.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("coingecko.key_type", "demo")
	v.SetDefault("coingecko.user_agent", "clean-mind-crypto/1.0.0")
	v.SetDefault("coingecko.timeout_sec", 20)
	v.SetDefault("coingecko.transport_retries", 1)
	v.SetDefault("coingecko.nft_min_interval_ms", 1000)
	v.SetDefault("coingecko.nft_retry_wait_sec", 5)
	v.SetDefault("coingecko.nft_rate_limit_retries", 1)

	// Dashboard defaults
	v.SetDefault("dashboard.gateway_url", "") // derived from api.host and api.port
	v.SetDefault("dashboard.page_size", 20)
	v.SetDefault("dashboard.currency", "usd")
	v.SetDefault("dashboard.timeout_sec", 30)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("CLEANMIND_COINGECKO_API_KEY"); key != "" {
		cfg.CoinGecko.APIKey = key
	}
	// Conventional name used by the upstream's own tooling.
	if cfg.CoinGecko.APIKey == "" {
		if key := os.Getenv("COINGECKO_API_KEY"); key != "" {
			cfg.CoinGecko.APIKey = key
		}
	}
}

// GatewayURL returns dashboard.gateway_url, or the gateway mounted by this
// server at api.host:api.port when it is unset. Wildcard hosts are reached
// over loopback.
func (c *Config) GatewayURL() string {
	if c.Dashboard.GatewayURL != "" {
		return c.Dashboard.GatewayURL
	}
	host := c.API.Host
	switch host {
	case "", "0.0.0.0", "::", "[::]":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(c.API.Port)) + "/api/coingecko"
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	}
	if c.CoinGecko.BaseURL == "" {
		return fmt.Errorf("coingecko.base_url is required")
	}
	if c.CoinGecko.TimeoutSec <= 0 {
		return fmt.Errorf("coingecko.timeout_sec must be positive")
	}
	if c.CoinGecko.TransportRetries < 0 || c.CoinGecko.NFTRateLimitRetry < 0 {
		return fmt.Errorf("retry counts must not be negative")
	}
	if c.CoinGecko.NFTMinIntervalMs < 0 || c.CoinGecko.NFTRetryWaitSec < 0 {
		return fmt.Errorf("nft pacing values must not be negative")
	}
	if !slices.Contains([]string{"demo", "pro"}, c.CoinGecko.KeyType) {
		return fmt.Errorf("coingecko.key_type must be demo or pro, got %q", c.CoinGecko.KeyType)
	}
	if c.Dashboard.PageSize <= 0 {
		return fmt.Errorf("dashboard.page_size must be positive")
	}
	if u, err := url.Parse(c.GatewayURL()); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("dashboard.gateway_url %q is not an http(s) URL", c.GatewayURL())
	}
	if !slices.Contains([]string{"text", "json"}, c.Logging.Format) {
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
