package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// DefaultJWTSecret is the development signing secret. It is rejected when
// ENVIRONMENT=production.
const DefaultJWTSecret = "your-secret-key-change-this-in-production"

// Config holds application level configuration loaded from environment variables.
// It is built once at startup and treated as read-only afterwards.
type Config struct {
	ProjectName string `env:"PROJECT_NAME, default=Cookonomics Backend"`
	ServerPort  string `env:"SERVER_PORT, default=8080"`
	Environment string `env:"ENVIRONMENT, default=development"`
	Debug       bool   `env:"DEBUG, default=true"`
	LogLevel    string `env:"LOG_LEVEL, default=info"`
	APIPrefix   string `env:"API_PREFIX, default=/api/v1"`
	SwaggerHost string `env:"SWAGGER_HOST"`
	CORSOrigins string `env:"BACKEND_CORS_ORIGINS"`
	ResetDB     bool   `env:"RESET_DB, default=false"`

	MySQL MySQLConfig
	Redis RedisConfig
	Auth  AuthConfig
}

// MySQLConfig describes the relational store and its connection pool.
type MySQLConfig struct {
	DSN             string        `env:"MYSQL_DSN"`
	Host            string        `env:"MYSQL_HOST, default=localhost"`
	Port            int           `env:"MYSQL_PORT, default=3306"`
	User            string        `env:"MYSQL_USER, default=app"`
	Password        string        `env:"MYSQL_PASSWORD, default=app"`
	Database        string        `env:"MYSQL_DB, default=cookonomics"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS, default=25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS, default=5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME, default=30m"`
}

// RedisConfig describes the optional user cache.
type RedisConfig struct {
	Addr         string        `env:"REDIS_ADDR, default=localhost:6379"`
	Password     string        `env:"REDIS_PASSWORD"`
	DB           int           `env:"REDIS_DB, default=0"`
	UserCacheTTL time.Duration `env:"USER_CACHE_TTL, default=5m"`
}

// AuthConfig holds token and password hashing parameters.
type AuthConfig struct {
	JWTSecret                string `env:"JWT_SECRET, default=your-secret-key-change-this-in-production"`
	JWTAlgorithm             string `env:"JWT_ALGORITHM, default=HS256"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES, default=30"`
	BcryptCost               int    `env:"BCRYPT_COST, default=10"`
}

// Load builds Config from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith builds Config from the given lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	switch c.Auth.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("config: unsupported JWT_ALGORITHM %q", c.Auth.JWTAlgorithm)
	}
	if c.Auth.AccessTokenExpireMinutes <= 0 {
		return errors.New("config: ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("config: JWT_SECRET must not be empty")
	}
	if c.IsProduction() && c.Auth.JWTSecret == DefaultJWTSecret {
		return errors.New("config: JWT_SECRET must be overridden in production")
	}
	return nil
}

// IsProduction reports whether the process runs with ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// AccessTokenTTL is the lifetime of issued bearer tokens.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.Auth.AccessTokenExpireMinutes) * time.Minute
}

// AllowedOrigins splits BACKEND_CORS_ORIGINS into a trimmed allow-list.
func (c *Config) AllowedOrigins() []string {
	if c.CORSOrigins == "" {
		return []string{}
	}
	origins := make([]string, 0)
	for _, origin := range strings.Split(c.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
