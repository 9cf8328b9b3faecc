package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "HS256", cfg.Auth.JWTAlgorithm)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL())
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 3306, cfg.MySQL.Port)
	assert.Equal(t, 5*time.Minute, cfg.Redis.UserCacheTTL)
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.AllowedOrigins())
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"SERVER_PORT":                 "9000",
		"JWT_SECRET":                  "s3cret",
		"JWT_ALGORITHM":               "HS512",
		"ACCESS_TOKEN_EXPIRE_MINUTES": "15",
		"BACKEND_CORS_ORIGINS":        " http://localhost:3000 , ,https://app.example.com",
		"MYSQL_DSN":                   "u:p@tcp(db:3306)/x",
		"USER_CACHE_TTL":              "1m",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "HS512", cfg.Auth.JWTAlgorithm)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL())
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.AllowedOrigins())
	assert.Equal(t, "u:p@tcp(db:3306)/x", cfg.MySQL.DSN)
	assert.Equal(t, time.Minute, cfg.Redis.UserCacheTTL)
}

func TestLoadWith_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unsupported algorithm", map[string]string{"JWT_ALGORITHM": "RS256"}},
		{"zero ttl", map[string]string{"ACCESS_TOKEN_EXPIRE_MINUTES": "0"}},
		{"default secret in production", map[string]string{"ENVIRONMENT": "production"}},
		{"not a number", map[string]string{"ACCESS_TOKEN_EXPIRE_MINUTES": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestLoadWith_ProductionWithSecret(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENVIRONMENT": "Production",
		"JWT_SECRET":  "real-secret",
	}))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
