package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "clubportal", cfg.AppName)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, "development-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "postgres://clubportal:pw@localhost:5432/clubportal?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("TOKEN_TTL", "3600")
	t.Setenv("IDENTITY_CACHE_TTL", "0s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://club.example, https://admin.example ,")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Zero(t, cfg.IdentityCache.TTL)
	assert.Equal(t, []string{"https://club.example", "https://admin.example"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestValidateRequiresSecretOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := &Config{
		Environment:   "production",
		Auth:          AuthConfig{TokenTTL: -time.Second},
		IdentityCache: IdentityCacheConfig{Size: -1},
	}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"JWT_SECRET", "TOKEN_TTL", "IDENTITY_CACHE_SIZE", "ANALYTICS_SCHEDULE"} {
		assert.Contains(t, err.Error(), want)
	}
}
