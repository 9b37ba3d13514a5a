package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port         string `yaml:"port" env:"SERVER_PORT"`
		Mode         string `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout  string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		AutoMigrate     bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE"`
	} `yaml:"database"`

	Session struct {
		Secret     string `yaml:"secret" env:"SESSION_SECRET"`
		CookieName string `yaml:"cookie_name" env:"SESSION_COOKIE_NAME"`
		Lifetime   string `yaml:"lifetime" env:"SESSION_LIFETIME"`
		Issuer     string `yaml:"issuer" env:"SESSION_ISSUER"`
		Secure     bool   `yaml:"secure" env:"SESSION_SECURE"`
	} `yaml:"session"`

	Pagination struct {
		PageSize int `yaml:"page_size" env:"PAGINATION_PAGE_SIZE"`
	} `yaml:"pagination"`

	Seed struct {
		Enabled       bool   `yaml:"enabled" env:"SEED_ENABLED"`
		AdminUsername string `yaml:"admin_username" env:"SEED_ADMIN_USERNAME"`
		AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
	} `yaml:"seed"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a .env file, a YAML file and environment variables,
// in increasing order of precedence.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := Default()

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Default returns a configuration populated with sane defaults
func Default() *Config {
	config := &Config{}

	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "10s"
	config.Server.WriteTimeout = "10s"

	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "taxi_service"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.AutoMigrate = true

	config.Session.CookieName = "sessionid"
	config.Session.Lifetime = "336h"
	config.Session.Issuer = "taxiservice"

	config.Pagination.PageSize = 2

	config.Seed.AdminUsername = "admin"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	return config
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// Validate ensures that the configuration is usable
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if _, err := time.ParseDuration(c.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid database connection max lifetime: %w", err)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}

	if c.Session.CookieName == "" {
		return fmt.Errorf("session cookie name is required")
	}

	if _, err := time.ParseDuration(c.Session.Lifetime); err != nil {
		return fmt.Errorf("invalid session lifetime format: %w", err)
	}

	if c.Pagination.PageSize <= 0 {
		return fmt.Errorf("pagination page size must be positive, got %d", c.Pagination.PageSize)
	}

	if c.Seed.Enabled && (c.Seed.AdminUsername == "" || c.Seed.AdminPassword == "") {
		return fmt.Errorf("seed admin username and password are required when seeding is enabled")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	return c.postgresURL("postgres")
}

// GetMigrationURL returns the connection string understood by the golang-migrate pgx/v5 driver
func (c *Config) GetMigrationURL() string {
	return c.postgresURL("pgx5")
}

func (c *Config) postgresURL(scheme string) string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   scheme,
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     c.Database.Host + ":" + c.Database.Port,
		Path:     "/" + c.Database.DBName,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}
	return u.String()
}
