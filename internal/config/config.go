// Package config handles application configuration using Viper.
// Viper merges defaults, an optional YAML file and environment variables,
// in that priority order. The result is built once at process start and
// passed by pointer to everything that needs it.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Object store backends.
const (
	BackendS3         = "s3"
	BackendFileSystem = "filesystem"
)

// Config is the root configuration struct.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	ObjectStore ObjectStoreConfig `mapstructure:"objectstore"`
	CDN         CDNConfig         `mapstructure:"cdn"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig selects the database/sql driver and its DSN.
// "pgx" talks to Postgres; "sqlite3" is used for local runs.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URL    string `mapstructure:"url"`
}

type ObjectStoreConfig struct {
	Backend         string `mapstructure:"backend"`
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	// Dir is the root directory of the filesystem backend.
	Dir string `mapstructure:"dir"`
}

// CDNConfig describes where stored objects are publicly served from.
type CDNConfig struct {
	Host      string `mapstructure:"host"`
	AccountID string `mapstructure:"account_id"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// envBindings maps config keys to the unprefixed environment variable
// names the functions platform injects.
var envBindings = map[string]string{
	"database.url":                  "DATABASE_URL",
	"objectstore.access_key_id":     "AWS_ACCESS_KEY_ID",
	"objectstore.secret_access_key": "AWS_SECRET_ACCESS_KEY",
	"objectstore.endpoint":          "S3_ENDPOINT",
	"objectstore.bucket":            "S3_BUCKET",
	"objectstore.region":            "S3_REGION",
	"cdn.host":                      "CDN_HOST",
	"cdn.account_id":                "CDN_ACCOUNT_ID",
}

// Load reads configuration from an optional YAML file and the environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.driver", "pgx")
	v.SetDefault("database.url", "")
	v.SetDefault("objectstore.backend", BackendS3)
	v.SetDefault("objectstore.endpoint", "https://bucket.poehali.dev")
	v.SetDefault("objectstore.region", "us-east-1")
	v.SetDefault("objectstore.bucket", "files")
	v.SetDefault("objectstore.access_key_id", "")
	v.SetDefault("objectstore.secret_access_key", "")
	v.SetDefault("objectstore.dir", "./storage/objects")
	v.SetDefault("cdn.host", "cdn.poehali.dev")
	v.SetDefault("cdn.account_id", "")
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("log.level", "info")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// A missing default config file is fine; an explicit path must exist.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// GIFTSHOP_ prefix + nested keys: GIFTSHOP_SERVER_PORT=9090 → server.port=9090
	v.SetEnvPrefix("GIFTSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.CDN.AccountID == "" {
		cfg.CDN.AccountID = cfg.ObjectStore.AccessKeyID
	}

	return &cfg, nil
}

// Address returns the listen address string like "0.0.0.0:8080".
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
