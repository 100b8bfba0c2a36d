package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Webhooks WebhooksConfig `mapstructure:"webhooks"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig configures the tokens accepted by the admin API.
type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// WebhooksConfig controls the delivery pipeline. Endpoints and delivery
// settings live in the separate file at ConfigPath so they can be reloaded
// without a restart.
type WebhooksConfig struct {
	ConfigPath          string        `mapstructure:"config_path"`
	SecretsDir          string        `mapstructure:"secrets_dir"`
	QueueKey            string        `mapstructure:"queue_key"`
	PopTimeout          time.Duration `mapstructure:"pop_timeout"`
	ErrorBackoff        time.Duration `mapstructure:"error_backoff"`
	EmitTimeout         time.Duration `mapstructure:"emit_timeout"`
	EmitEnabled         bool          `mapstructure:"emit_enabled"`
	EndpointConcurrency int           `mapstructure:"endpoint_concurrency"`
	Watch               bool          `mapstructure:"watch"`
	WatchDebounce       time.Duration `mapstructure:"watch_debounce"`
	RetentionSchedule   string        `mapstructure:"retention_schedule"`
}

// TracingConfig controls OTLP/HTTP export of delivery attempt spans.
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	Endpoint    string `mapstructure:"endpoint"`
	Insecure    bool   `mapstructure:"insecure"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: YESOD_.
// Nested keys use underscore: YESOD_DATABASE_HOST, YESOD_WEBHOOKS_QUEUE_KEY, etc.
// A .env file in the working directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "yesod_auth")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "1h")
	v.SetDefault("jwt.issuer", "yesod-auth")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("webhooks.config_path", "config/webhooks.yaml")
	v.SetDefault("webhooks.secrets_dir", "/run/secrets")
	v.SetDefault("webhooks.queue_key", "webhook:events")
	v.SetDefault("webhooks.pop_timeout", "1s")
	v.SetDefault("webhooks.error_backoff", "1s")
	v.SetDefault("webhooks.emit_timeout", "2s")
	v.SetDefault("webhooks.emit_enabled", true)
	v.SetDefault("webhooks.endpoint_concurrency", 1)
	v.SetDefault("webhooks.watch", true)
	v.SetDefault("webhooks.watch_debounce", "500ms")
	v.SetDefault("webhooks.retention_schedule", "@daily")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "yesod-auth-webhooks")
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.insecure", true)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: YESOD_DATABASE_HOST -> database.host
	v.SetEnvPrefix("YESOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
