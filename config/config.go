// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	LogLevel string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds postgres settings.
type DatabaseConfig struct {
	// URL is a postgres connection string (DATABASE_URL).
	URL string
}

// AuthConfig holds token verification settings.
type AuthConfig struct {
	// Issuer is the trusted token issuer identifier (AUTH_ISSUER).
	Issuer string
	// Audience is the expected aud claim for this service (AUTH_AUDIENCE).
	Audience string
	// JWKSURL is the issuer's published key set endpoint (AUTH_JWKS_URL).
	// Derived from Issuer when unset.
	JWKSURL string
	// Algorithms are the accepted signing algorithms (AUTH_ALGORITHMS,
	// comma-separated). Defaults to RS256.
	Algorithms []string
	// KeySetTTL bounds how long a fetched key set is reused
	// (AUTH_KEYSET_TTL).
	KeySetTTL time.Duration
	// FetchTimeout bounds one key set fetch (AUTH_FETCH_TIMEOUT).
	FetchTimeout time.Duration
	// RefreshSchedule is a cron expression for background key set refresh
	// (AUTH_REFRESH_SCHEDULE). Empty disables the schedule.
	RefreshSchedule string
}

// RedisConfig holds optional redis settings for the shared key set cache.
type RedisConfig struct {
	// URL is a redis connection string (REDIS_URL). Empty disables redis.
	URL string
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getenv("HOST", "0.0.0.0"),
			Port:            getint("PORT", 8080),
			ReadTimeout:     getduration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getduration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getduration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Auth: AuthConfig{
			Issuer:          os.Getenv("AUTH_ISSUER"),
			Audience:        os.Getenv("AUTH_AUDIENCE"),
			JWKSURL:         os.Getenv("AUTH_JWKS_URL"),
			Algorithms:      getlist("AUTH_ALGORITHMS", []string{"RS256"}),
			KeySetTTL:       getduration("AUTH_KEYSET_TTL", 10*time.Minute),
			FetchTimeout:    getduration("AUTH_FETCH_TIMEOUT", 10*time.Second),
			RefreshSchedule: getenv("AUTH_REFRESH_SCHEDULE", "@every 10m"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		LogLevel: getenv("LOG_LEVEL", "info"),
	}

	if cfg.Auth.Issuer == "" {
		return nil, fmt.Errorf("config: AUTH_ISSUER is required")
	}
	if cfg.Auth.Audience == "" {
		return nil, fmt.Errorf("config: AUTH_AUDIENCE is required")
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("config: DATABASE_URL is required")
	}
	if cfg.Auth.JWKSURL == "" {
		cfg.Auth.JWKSURL = strings.TrimRight(cfg.Auth.Issuer, "/") + "/.well-known/jwks.json"
	}
	return cfg, nil
}

// Addr returns the host:port the server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getlist(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
