// Package config loads devkit configuration from devkit.toml, .env and the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/roelfdiedericks/devkit/internal/logging"
	"github.com/roelfdiedericks/devkit/internal/paths"
)

// Config represents the merged devkit configuration
type Config struct {
	Logging  LoggingConfig  `toml:"logging"`
	Server   ServerConfig   `toml:"server"`
	Currency CurrencyConfig `toml:"currency"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Tools    ToolsConfig    `toml:"tools"`

	// Path of the file the config was read from, empty when running on defaults.
	Source string `toml:"-"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

type ServerConfig struct {
	Listen       string `toml:"listen"`
	DevMode      bool   `toml:"dev_mode"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

type CurrencyConfig struct {
	Endpoint string   `toml:"endpoint"` // base URL; "/latest?from=USD" is appended
	Timeout  Duration `toml:"timeout"`
	CacheTTL Duration `toml:"cache_ttl"`
}

// MetricsConfig is expressed negatively because mergo cannot override
// a true default with a false value from the file.
type MetricsConfig struct {
	DisablePersistence bool `toml:"disable_persistence"`
}

type ToolsConfig struct {
	Disabled []string `toml:"disabled"`
}

// Duration is a time.Duration that decodes from strings like "5s" or "1h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "warn"},
		Server: ServerConfig{
			Listen:       "127.0.0.1:1337",
			MaxBodyBytes: 8 << 20,
		},
		Currency: CurrencyConfig{
			Endpoint: "https://api.frankfurter.app",
			Timeout:  Duration{5 * time.Second},
			CacheTTL: Duration{time.Hour},
		},
	}
}

// Load builds the configuration: defaults, then the TOML file, then environment overrides.
// An empty path means "search the usual places" (see paths.ConfigPath).
func Load(path string) (*Config, error) {
	cfg := Default()

	if envFiles := paths.EnvPaths(); len(envFiles) > 0 {
		// godotenv.Load never overrides variables already set in the process
		if err := godotenv.Load(envFiles...); err != nil {
			logging.L_warn("config: failed to load .env", "files", envFiles, "error", err)
		} else {
			logging.L_debug("config: loaded .env", "files", envFiles)
		}
	}

	if path == "" {
		found, err := paths.ConfigPath()
		if err != nil {
			return nil, err
		}
		path = found
	}

	if path != "" {
		fileCfg, err := decodeFile(path)
		if err != nil {
			return nil, err
		}
		if err := mergo.Merge(cfg, fileCfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge config: %w", err)
		}
		cfg.Source = path
		logging.L_debug("config: loaded", "path", path)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var fileCfg Config
	md, err := toml.Decode(string(data), &fileCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		logging.L_warn("config: unknown key", "key", key.String(), "path", path)
	}
	return &fileCfg, nil
}

// applyEnv applies DEVKIT_* overrides from the process environment.
func (c *Config) applyEnv() error {
	if v := os.Getenv("DEVKIT_LISTEN"); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv("DEVKIT_RATES_URL"); v != "" {
		c.Currency.Endpoint = v
	}
	if v := os.Getenv("DEVKIT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("DEVKIT_DISABLED_TOOLS"); v != "" {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				c.Tools.Disabled = append(c.Tools.Disabled, id)
			}
		}
	}
	return nil
}

// Validate checks values that would otherwise fail later in confusing ways.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	if c.Currency.Timeout.Duration <= 0 {
		return fmt.Errorf("currency.timeout must be positive")
	}
	if c.Currency.Endpoint == "" {
		return fmt.Errorf("currency.endpoint is required")
	}
	return nil
}

// LogLevel returns the configured level as a logging constant.
func (c *Config) LogLevel() int {
	level, _ := logging.ParseLevel(c.Logging.Level)
	return level
}
