package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/crypto/bcrypt"
)

// Token transports understood by the auth gate.
const (
	TransportHeader = "header"
	TransportCookie = "cookie"
)

// MinSecretLength is the shortest JWT_SECRET accepted at startup.
const MinSecretLength = 32

// Config holds the application configuration. It is built once at startup
// and passed by value or pointer to the components that need it; nothing
// mutates it afterwards.
type Config struct {
	ServerPort     int           `envconfig:"PORT" default:"8080"`
	AppEnv         string        `envconfig:"APP_ENV" default:"development"`
	DatabasePath   string        `envconfig:"DATABASE_PATH" default:"./jobboard.db"`
	AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://127.0.0.1:3000"`
	ShutdownAfter  time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`

	JWTSecret      string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL       time.Duration `envconfig:"TOKEN_TTL" default:"1h"`
	TokenTransport string        `envconfig:"TOKEN_TRANSPORT" default:"header"`
	CookieName     string        `envconfig:"COOKIE_NAME" default:"token"`
	BcryptCost     int           `envconfig:"BCRYPT_COST" default:"10"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	EventRetention     time.Duration `envconfig:"EVENT_RETENTION" default:"720h"`
	EventPruneSchedule string        `envconfig:"EVENT_PRUNE_SCHEDULE" default:"@daily"`
}

// Load loads configuration from environment variables, applying defaults,
// and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants the rest of the application relies on.
func (c *Config) Validate() error {
	if len(c.JWTSecret) < MinSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", MinSecretLength)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	switch c.TokenTransport {
	case TransportHeader:
	case TransportCookie:
		if c.CookieName == "" {
			return errors.New("COOKIE_NAME must be set for cookie transport")
		}
	default:
		return fmt.Errorf("unknown TOKEN_TRANSPORT %q (want %q or %q)", c.TokenTransport, TransportHeader, TransportCookie)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid PORT %d", c.ServerPort)
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
