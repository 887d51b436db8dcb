package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// AuthType selects the authentication strategy: "" (none), "basic", or
	// "session".
	AuthType string `env:"AUTH_TYPE"`

	// ExcludedPaths lists path patterns that bypass authentication.
	ExcludedPaths []string `env:"EXCLUDED_PATHS, delimiter=;, default=/health;/health/ready;/metrics;/auth/register;/auth/login;/auth/reset_password"`

	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	// CookieName names the session cookie read by the session strategy.
	CookieName string `env:"SESSION_NAME, default=_my_session_id"`
	// Store selects the session registry backend: "memory" or "redis".
	Store string `env:"SESSION_STORE, default=memory"`
	// TTL bounds session lifetime; 0 means sessions never expire.
	TTL time.Duration `env:"SESSION_TTL, default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=authgate"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
