// Package config loads the storefront settings from a YAML file, a .env file
// and STOREFRONT_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"Storefront/pkg/kit"
)

const EnvPrefix = "STOREFRONT_"

type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Log     LogConfig     `koanf:"log"`
	Auth    AuthConfig    `koanf:"auth"`
	Metrics MetricsConfig `koanf:"metrics"`
	Storage StorageConfig `koanf:"storage"`
	Catalog CatalogConfig `koanf:"catalog"`
	NATS    NATSConfig    `koanf:"nats"`
}

type ServerConfig struct {
	Port       int           `koanf:"port"`
	ReadHeader time.Duration `koanf:"readheader"`
	Shutdown   time.Duration `koanf:"shutdown"`

	// TrustedProxies may set X-Forwarded-For for the login rate limit.
	TrustedProxies []string `koanf:"trustedproxies"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type AuthConfig struct {
	Secret string        `koanf:"secret"`
	TTL    time.Duration `koanf:"ttl"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Token   string `koanf:"token"`
}

type StorageConfig struct {
	Driver   string         `koanf:"driver"`
	Redis    RedisConfig    `koanf:"redis"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Postgres PostgresConfig `koanf:"postgres"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Prefix   string `koanf:"prefix"`
}

type SQLiteConfig struct {
	Path string `koanf:"path"`
}

type PostgresConfig struct {
	URL string `koanf:"url"`
}

type CatalogConfig struct {
	Source string `koanf:"source"`
}

type NATSConfig struct {
	URL     string `koanf:"url"`
	Subject string `koanf:"subject"`
}

func defaults() map[string]any {
	return map[string]any{
		"server.port":          8080,
		"server.readheader":    "5s",
		"server.shutdown":      "10s",
		"log.level":            "info",
		"auth.ttl":             "15m",
		"metrics.enabled":      true,
		"storage.driver":       "memory",
		"storage.redis.addr":   "localhost:6379",
		"storage.redis.prefix": "storefront:",
		"storage.sqlite.path":  "storefront.db",
		"catalog.source":       "static",
		"nats.subject":         "storefront.orders.placed",
	}
}

// Load reads configFile (skipped when absent), then envFile (skipped when
// absent), then the process environment, and validates the result.
func Load(configFile, envFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", configFile, err)
		}
	}

	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
		m := make(map[string]any, len(vars))
		for key, v := range vars {
			if strings.HasPrefix(key, EnvPrefix) {
				m[envKey(key)] = v
			}
		}
		if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// envKey maps STOREFRONT_STORAGE_REDIS_ADDR to storage.redis.addr.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "_", ".")
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadHeader <= 0 || c.Server.Shutdown <= 0 {
		return errors.New("server timeouts must be positive")
	}
	if _, err := kit.ParsePrefixes(c.Server.TrustedProxies); err != nil {
		return fmt.Errorf("invalid server.trustedproxies: %w", err)
	}
	if len(c.Auth.Secret) < 32 {
		return errors.New("auth secret is required and must be at least 32 chars")
	}
	if c.Auth.TTL <= 0 {
		return fmt.Errorf("invalid auth ttl: %v", c.Auth.TTL)
	}

	switch c.Storage.Driver {
	case "memory", "redis", "sqlite":
	case "postgres":
		if c.Storage.Postgres.URL == "" {
			return errors.New("storage.postgres.url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Catalog.Source {
	case "static":
	case "postgres":
		if c.Storage.Postgres.URL == "" {
			return errors.New("storage.postgres.url is required for the postgres catalog source")
		}
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}
	return nil
}

// NeedsPostgres reports whether any component reads from Postgres.
func (c *Config) NeedsPostgres() bool {
	return c.Storage.Driver == "postgres" || c.Catalog.Source == "postgres"
}

func (c *Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "server.port=%d ", c.Server.Port)
	fmt.Fprintf(&b, "log.level=%s ", c.Log.Level)
	fmt.Fprintf(&b, "storage.driver=%s ", c.Storage.Driver)
	fmt.Fprintf(&b, "catalog.source=%s ", c.Catalog.Source)
	fmt.Fprintf(&b, "metrics.enabled=%t ", c.Metrics.Enabled)
	fmt.Fprintf(&b, "nats.enabled=%t", c.NATS.URL != "")
	return b.String()
}
