package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/Angioz/MCP-LEGAL-ADVISOR/cache"
	"github.com/Angioz/MCP-LEGAL-ADVISOR/observe"
)

// Duration decodes TOML duration strings like "24h" or "1500ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// AuthConfig configures admin-surface authentication.
type AuthConfig struct {
	Mode      string `toml:"mode"` // jwt|apikey|none
	JWTSecret string `toml:"jwt_secret"`
	JWTIssuer string `toml:"jwt_issuer"`
	APIKey    string `toml:"api_key"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Listen string     `toml:"listen"`
	Auth   AuthConfig `toml:"auth"`
}

// CacheConfig mirrors the [cache] TOML table.
type CacheConfig struct {
	Enabled      bool     `toml:"enabled"`
	Directory    string   `toml:"directory"`
	TTLDefault   Duration `toml:"ttl_default"`
	MaxSizeBytes int64    `toml:"max_size_bytes"`
}

// ObserveConfig mirrors the [observe] TOML table.
type ObserveConfig struct {
	ServiceName string  `toml:"service_name"`
	Version     string  `toml:"version"`
	Tracing     Tracing `toml:"tracing"`
	Metrics     Metrics `toml:"metrics"`
	Logging     Logging `toml:"logging"`
}

// Tracing configures the tracing subsystem.
type Tracing struct {
	Enabled   bool    `toml:"enabled"`
	Exporter  string  `toml:"exporter"`
	SamplePct float64 `toml:"sample_pct"`
}

// Metrics configures the metrics subsystem.
type Metrics struct {
	Enabled  bool   `toml:"enabled"`
	Exporter string `toml:"exporter"`
}

// Logging configures the logging subsystem.
type Logging struct {
	Enabled bool   `toml:"enabled"`
	Level   string `toml:"level"`
}

// SourceConfig configures one upstream data source.
type SourceConfig struct {
	Endpoint string   `toml:"endpoint"`
	APIKey   string   `toml:"api_key"`
	Timeout  Duration `toml:"timeout"`
	TTL      Duration `toml:"ttl"`
}

// SourcesConfig holds the per-source sections.
type SourcesConfig struct {
	EURLex     SourceConfig `toml:"eurlex"`
	Normattiva SourceConfig `toml:"normattiva"`
	AADE       SourceConfig `toml:"aade"`
	OpenData   SourceConfig `toml:"opendata"`
}

// Config is the full legal-advisor configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Observe ObserveConfig `toml:"observe"`
	Cache   CacheConfig   `toml:"cache"`
	Sources SourcesConfig `toml:"sources"`
}

// Load reads, expands, decodes, and validates the configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	expanded, err := expandEnvStrict(string(raw))
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := toml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Auth.Mode == "" {
		c.Server.Auth.Mode = "none"
	}
	if c.Observe.ServiceName == "" {
		c.Observe.ServiceName = "legal-advisor"
	}
	if c.Observe.Logging.Level == "" {
		c.Observe.Logging.Level = "info"
	}
}

func (c *Config) validate() error {
	switch c.Server.Auth.Mode {
	case "none":
	case "jwt":
		if c.Server.Auth.JWTSecret == "" {
			return errors.New("config: auth mode jwt requires jwt_secret")
		}
	case "apikey":
		if c.Server.Auth.APIKey == "" {
			return errors.New("config: auth mode apikey requires api_key")
		}
	default:
		return fmt.Errorf("config: unknown auth mode %q", c.Server.Auth.Mode)
	}
	if c.Cache.Enabled && c.Cache.Directory == "" {
		return errors.New("config: cache enabled without directory")
	}
	return nil
}

// CacheConfig maps the cache section onto the cache package's config.
func (c *Config) CacheConfig() cache.Config {
	return cache.Config{
		Enabled:      c.Cache.Enabled,
		Dir:          c.Cache.Directory,
		TTLDefault:   c.Cache.TTLDefault.Std(),
		MaxSizeBytes: c.Cache.MaxSizeBytes,
	}
}

// ObserverConfig maps the observe section onto the observe package's
// config.
func (c *Config) ObserverConfig() observe.Config {
	return observe.Config{
		ServiceName: c.Observe.ServiceName,
		Version:     c.Observe.Version,
		Tracing: observe.TracingConfig{
			Enabled:   c.Observe.Tracing.Enabled,
			Exporter:  c.Observe.Tracing.Exporter,
			SamplePct: c.Observe.Tracing.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.Observe.Metrics.Enabled,
			Exporter: c.Observe.Metrics.Exporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: c.Observe.Logging.Enabled,
			Level:   c.Observe.Logging.Level,
		},
	}
}

// LoadCacheConfig loads only the cache configuration from path. Any
// failure (missing file, bad TOML, missing env) yields a disabled cache
// rather than an error: a broken cache config must never keep the
// service from answering queries.
func LoadCacheConfig(path string) cache.Config {
	cfg, err := Load(path)
	if err != nil {
		return cache.Config{Enabled: false}
	}
	return cfg.CacheConfig()
}
