package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	S3        S3Config        `mapstructure:"s3"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	Mode           string   `mapstructure:"mode"` // gin mode: debug, release, test
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig selects the recipe store. Driver "mongo" uses URI and Name;
// "postgres" and "sqlite" use DSN. Table names the collection or table.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
	DSN    string `mapstructure:"dsn"`
	Table  string `mapstructure:"table"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	// URLExpiration is the lifetime of presigned upload URLs, in seconds.
	URLExpiration int    `mapstructure:"url_expiration"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// Expiry returns URLExpiration as a duration.
func (c S3Config) Expiry() time.Duration {
	return time.Duration(c.URLExpiration) * time.Second
}

// AuthConfig describes how bearer tokens from the identity provider are trusted.
// PublicKeyPEM (RS256) takes precedence over Secret (HS256).
type AuthConfig struct {
	Secret       string `mapstructure:"secret"`
	PublicKeyPEM string `mapstructure:"public_key_pem"`
	Issuer       string `mapstructure:"issuer"`
	Audience     string `mapstructure:"audience"`
}

// RedisConfig enables per-owner rate limiting when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (Config, error) {
	var config Config
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("database.driver", "mongo")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "recipes")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.table", "recipes")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.url_expiration", 300)
	v.SetDefault("s3.public_base_url", "")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.public_key_pem", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.audience", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if err := v.ReadInConfig(); err != nil {
		// No config file is fine: defaults and env vars still apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("unmarshal config: %w", err)
	}
	return config, nil
}

// Validate reports misconfiguration that must stop the process at startup.
func (c Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "mongo":
		if c.Database.URI == "" {
			errs = append(errs, errors.New("database.uri is required for mongo"))
		}
	case "postgres", "sqlite":
		if c.Database.DSN == "" {
			errs = append(errs, fmt.Errorf("database.dsn is required for %s", c.Database.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database.driver %q", c.Database.Driver))
	}
	if c.S3.BucketName == "" {
		errs = append(errs, errors.New("s3.bucket_name is required"))
	}
	if c.S3.URLExpiration <= 0 {
		errs = append(errs, errors.New("s3.url_expiration must be a positive number of seconds"))
	}
	if c.Auth.Secret == "" && c.Auth.PublicKeyPEM == "" {
		errs = append(errs, errors.New("one of auth.secret or auth.public_key_pem is required"))
	}
	if c.Redis.Addr != "" && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		errs = append(errs, errors.New("rate_limit.requests and rate_limit.window must be positive"))
	}
	return errors.Join(errs...)
}
