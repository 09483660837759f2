// Package config loads the service configuration from the environment.
//
// Defaults are layered first, then any BOOKS_* environment variables (a `.env`
// file is autoloaded when present). The result is decoded into Config and checked
// with go-playground/validator so the process fails fast on bad settings.
//
// Nested keys use "." after the prefix, e.g.
//
//	BOOKS_SERVER.PORT=8080
//	BOOKS_DATABASE.DRIVER=sqlite
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix every configuration environment variable carries.
const EnvPrefix = "BOOKS_"

// ServiceName tags logs and traces.
const ServiceName = "bookshelf"

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config is the root configuration object.
//
// Observability is a pointer because the block is optional; defaults are
// injected when it is absent.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are seconds.
type ServerConfig struct {
	Port               string          `koanf:"port" validate:"required"`
	ReadTimeout        int             `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int             `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int             `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string        `koanf:"cors_allowed_origins" validate:"required"`
	RateLimit          RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig controls the per-client request limiter.
// Requests are allowed per Window; the limiter is off unless Enabled.
type RateLimitConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Requests int           `koanf:"requests" validate:"omitempty,min=1"`
	Window   time.Duration `koanf:"window" validate:"omitempty,min=1s"`
}

// Validate requires a usable quota once the limiter is enabled.
func (c RateLimitConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Requests < 1 {
		return fmt.Errorf("rate_limit requests must be at least 1 when enabled, got %d", c.Requests)
	}

	if c.Window < time.Second {
		return fmt.Errorf("rate_limit window must be at least 1s when enabled, got %s", c.Window)
	}

	return nil
}

// DatabaseConfig selects the storage driver and holds its connection settings.
//
// The PostgreSQL fields are only required when Driver is "postgres".
type DatabaseConfig struct {
	Driver          string `koanf:"driver" validate:"required,oneof=postgres sqlite memory"`
	Host            string `koanf:"host" validate:"required_if=Driver postgres"`
	Port            int    `koanf:"port" validate:"required_if=Driver postgres"`
	User            string `koanf:"user" validate:"required_if=Driver postgres"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required_if=Driver postgres"`
	SSLMode         string `koanf:"ssl_mode" validate:"required_if=Driver postgres"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time"`
	SQLitePath      string `koanf:"sqlite_path" validate:"required_if=Driver sqlite"`
	AutoMigrate     bool   `koanf:"auto_migrate"`
}

// RedisConfig contains Redis connection details. An empty Address disables Redis.
type RedisConfig struct {
	Address string `koanf:"address"`
}

// defaults are loaded before the environment, so a local run against a stock
// postgres only needs BOOKS_DATABASE.PASSWORD.
var defaults = map[string]any{
	"primary.env":                                         "local",
	"server.port":                                         "8080",
	"server.read_timeout":                                 30,
	"server.write_timeout":                                30,
	"server.idle_timeout":                                 60,
	"server.cors_allowed_origins":                         []string{"*"},
	"server.rate_limit.enabled":                           false,
	"server.rate_limit.requests":                          100,
	"server.rate_limit.window":                            "1m",
	"database.driver":                                     DriverPostgres,
	"database.host":                                       "localhost",
	"database.port":                                       5432,
	"database.user":                                       "postgres",
	"database.name":                                       "books",
	"database.ssl_mode":                                   "disable",
	"database.max_open_conns":                             25,
	"database.max_idle_conns":                             25,
	"database.conn_max_lifetime":                          300,
	"database.conn_max_idle_time":                         300,
	"database.sqlite_path":                                "data/books.db",
	"database.auto_migrate":                               true,
	"observability.logging.level":                         "info",
	"observability.logging.format":                        "console",
	"observability.logging.slow_query_threshold":          "100ms",
	"observability.new_relic.app_log_forwarding_enabled":  true,
	"observability.new_relic.distributed_tracing_enabled": true,
	"observability.health_checks.enabled":                 true,
	"observability.health_checks.timeout":                 "5s",
	"observability.health_checks.checks":                  []string{"database", "redis"},
}

// LoadConfig reads defaults and environment variables into a validated Config.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("could not load config defaults: %w", err)
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}

	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Server.RateLimit.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
