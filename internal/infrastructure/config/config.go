package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// AuthMode selects which auth backend the gateway talks to.
type AuthMode string

const (
	// AuthModeHosted brokers sessions through the hosted auth service.
	AuthModeHosted AuthMode = "hosted"
	// AuthModeEmbedded runs the self-hosted backend against our own database.
	AuthModeEmbedded AuthMode = "embedded"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (m *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "hosted", "embedded":
		*m = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AUTH_MODE: %q (valid options: hosted, embedded)", v)
	}
}

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	Bolt  BoltConfig
}

type AuthConfig struct {
	Mode AuthMode `env:"AUTH_MODE, default=embedded"`

	// Hosted-mode settings; ignored when Mode is embedded.
	BaseURL      string        `env:"AUTH_BASE_URL"`
	APIKey       string        `env:"AUTH_API_KEY"`
	PollInterval time.Duration `env:"AUTH_POLL_INTERVAL, default=30s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=r3alm"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
	TLS      bool   `env:"REDIS_TLS,      default=false"`
}

type BoltConfig struct {
	Path string `env:"BOLT_PATH, default=data/demo_identities.db"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
