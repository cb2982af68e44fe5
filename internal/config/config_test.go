package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "config-test-secret-that-is-32-bytes!"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, TransportHeader, cfg.TokenTransport)
	assert.Equal(t, "token", cfg.CookieName)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "@daily", cfg.EventPruneSchedule)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("APP_ENV", "production")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("TOKEN_TRANSPORT", "cookie")
	t.Setenv("COOKIE_NAME", "jb_session")
	t.Setenv("PORT", "5000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, TransportCookie, cfg.TokenTransport)
	assert.Equal(t, "jb_session", cfg.CookieName)
	assert.Equal(t, 5000, cfg.ServerPort)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			ServerPort:     8080,
			JWTSecret:      testSecret,
			TokenTTL:       time.Hour,
			TokenTransport: TransportHeader,
			CookieName:     "token",
			BcryptCost:     10,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "short secret", mutate: func(c *Config) { c.JWTSecret = "short" }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.TokenTTL = 0 }, wantErr: true},
		{name: "unknown transport", mutate: func(c *Config) { c.TokenTransport = "query" }, wantErr: true},
		{name: "cookie without name", mutate: func(c *Config) {
			c.TokenTransport = TransportCookie
			c.CookieName = ""
		}, wantErr: true},
		{name: "bcrypt cost too low", mutate: func(c *Config) { c.BcryptCost = 2 }, wantErr: true},
		{name: "bcrypt cost too high", mutate: func(c *Config) { c.BcryptCost = 40 }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.ServerPort = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
