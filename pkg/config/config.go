package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// DBConfig holds database configuration
type DBConfig struct {
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            string        `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER" envDefault:"postgres"`
	Password        string        `env:"DB_PASSWORD" envDefault:"password"`
	DBName          string        `env:"DB_NAME" envDefault:"retail"`
	SSLMode         string        `env:"DB_SSL_MODE" envDefault:"disable"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"100"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
	LogLevel        string        `env:"DB_LOG_LEVEL" envDefault:"warn"`

	// SharedSchema holds the tenant registry and the global user table.
	SharedSchema string `env:"DB_SHARED_SCHEMA" envDefault:"shared"`
}

// GetDSN returns the PostgreSQL connection string
func (c *DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// GormLogLevel maps DB_LOG_LEVEL onto gorm's logger levels.
func (c *DBConfig) GormLogLevel() logger.LogLevel {
	switch c.LogLevel {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string `env:"SERVER_PORT" envDefault:"8080"`
	Env  string `env:"APP_ENV" envDefault:"development"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey      string `env:"JWT_SIGNING_KEY" envDefault:"defaultsecretkey"`
	ExpirationHours int    `env:"JWT_EXPIRATION_HOURS" envDefault:"24"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string `env:"METRICS_PREFIX" envDefault:"retail"`
}

// RedisConfig holds the optional tenant cache configuration.
// An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL      time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`
}

// ProvisioningConfig throttles schema creation, which runs DDL against the shared database.
type ProvisioningConfig struct {
	RatePerSecond float64 `env:"PROVISION_RATE_PER_SEC" envDefault:"1"`
	Burst         int     `env:"PROVISION_BURST" envDefault:"3"`
}

// Config holds all configuration
type Config struct {
	ServiceName  string
	DB           DBConfig
	Server       ServerConfig
	JWT          JWTConfig
	Log          LogConfig
	Metrics      MetricsConfig
	Redis        RedisConfig
	Provisioning ProvisioningConfig
}

// Load loads configuration from the environment, reading an optional .env file first
func Load(serviceName string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	cfg := &Config{ServiceName: serviceName}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if cfg.DB.SharedSchema == "" {
		return nil, fmt.Errorf("DB_SHARED_SCHEMA must not be empty")
	}
	if cfg.Provisioning.RatePerSecond <= 0 || cfg.Provisioning.Burst <= 0 {
		return nil, fmt.Errorf("provisioning rate and burst must be positive")
	}

	return cfg, nil
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("db_host", c.DB.Host),
		zap.String("db_port", c.DB.Port),
		zap.String("db_user", c.DB.User),
		zap.String("db_name", c.DB.DBName),
		zap.String("shared_schema", c.DB.SharedSchema),
		zap.String("server_port", c.Server.Port),
		zap.Bool("tenant_cache", c.Redis.Addr != ""),
	}
}
