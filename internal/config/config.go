// Package config loads application configuration from environment
// variables. The process consumes configuration, it never produces it.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/boardkit/board/pkg/db"
	"github.com/boardkit/board/pkg/logger"
)

// Config is the full application configuration.
type Config struct {
	Database db.Config
	Sentry   logger.SentryConfig

	// HTTP server address.
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Redis connection URL for the session store.
	RedisURL string `env:"REDIS_URL,required"`

	// Secret used to sign session and flash cookies. 32+ bytes.
	SessionSecret string `env:"SESSION_SECRET,required"`

	// Session cookie settings.
	SessionCookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"__sid"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"720h"`

	// Set Secure on cookies; disable only for local plain-HTTP development.
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"true"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
