// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the full service configuration.
type Config struct {
	Server   Server
	Database Database
}

// Server holds HTTP listener settings.
type Server struct {
	Port            int           `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"1m"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"https://*,http://*" envSeparator:","`
}

// Addr returns the listen address for the configured port.
func (s Server) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// Database holds connection and pool settings for the todo store.
type Database struct {
	Driver string `env:"DB_DRIVER" envDefault:"postgres"`
	URL    string `env:"DATABASE_URL"`

	Host     string `env:"BLUEPRINT_DB_HOST" envDefault:"localhost"`
	Port     string `env:"BLUEPRINT_DB_PORT" envDefault:"5432"`
	Username string `env:"BLUEPRINT_DB_USERNAME"`
	Password string `env:"BLUEPRINT_DB_PASSWORD"`
	Name     string `env:"BLUEPRINT_DB_DATABASE"`
	Schema   string `env:"BLUEPRINT_DB_SCHEMA"`
	SSLMode  string `env:"BLUEPRINT_DB_SSLMODE" envDefault:"disable"`

	SQLitePath string `env:"DB_SQLITE_PATH" envDefault:"todos.db"`

	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"100"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`

	AutoMigrate bool `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	LogQueries  bool `env:"DB_LOG_QUERIES" envDefault:"false"`
}

// DSN returns the connection string for the configured driver.
// DATABASE_URL wins over the individual postgres parts when set.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Driver == DriverSQLite {
		return d.SQLitePath
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.Username, d.Password, d.Name, d.Port, d.SSLMode)
	if d.Schema != "" {
		dsn += " search_path=" + d.Schema
	}
	return dsn
}

// Redacted returns DSN with any password removed, suitable for logs.
func (d Database) Redacted() string {
	if d.Driver == DriverSQLite && d.URL == "" {
		return d.SQLitePath
	}
	if d.URL != "" {
		u, err := url.Parse(d.URL)
		if err != nil || u.Scheme == "" {
			return "<redacted>"
		}
		return u.Redacted()
	}
	return fmt.Sprintf("host=%s user=%s dbname=%s port=%s", d.Host, d.Username, d.Name, d.Port)
}

// Load parses the process environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Server.Port)
	}
	switch c.Database.Driver {
	case DriverPostgres:
	case DriverSQLite:
		if strings.TrimSpace(c.Database.DSN()) == "" {
			return fmt.Errorf("DB_SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database pool sizes must not be negative")
	}
	return nil
}
