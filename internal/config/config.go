package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultAccessTokenTTL     = "120m"
	defaultRefreshTokenTTL    = "168h"
	defaultIssuer             = "roleauth"
	defaultAudience           = "roleauth"
	defaultPort               = "8080"
	defaultJWTSecret          = "change-me-jwt-secret"
	defaultRefreshTokenPepper = "change-me-refresh-pepper"
)

// Config holds everything the service reads from the environment. TTL
// strings are parsed once here; nothing re-reads the environment per call.
type Config struct {
	AppEnv             string
	DatabaseURL        string
	Port               string
	JWTSecret          string
	JWTIssuer          string
	JWTAudience        string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	RefreshTokenPepper string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.JWTIssuer = strings.TrimSpace(getEnv("JWT_ISSUER", defaultIssuer))
	cfg.JWTAudience = strings.TrimSpace(getEnv("JWT_AUDIENCE", defaultAudience))
	cfg.RefreshTokenPepper = strings.TrimSpace(getEnv("REFRESH_TOKEN_PEPPER", defaultRefreshTokenPepper))

	var err error
	cfg.AccessTokenTTL, err = parseDurationEnv("ACCESS_TOKEN_TTL", defaultAccessTokenTTL)
	if err != nil {
		return nil, err
	}

	cfg.RefreshTokenTTL, err = parseDurationEnv("REFRESH_TOKEN_TTL", defaultRefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be > 0")
	}
	if cfg.RefreshTokenTTL <= 0 {
		return fmt.Errorf("REFRESH_TOKEN_TTL must be > 0")
	}
	if cfg.JWTIssuer == "" || cfg.JWTAudience == "" {
		return fmt.Errorf("JWT_ISSUER and JWT_AUDIENCE must not be empty")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.RefreshTokenPepper, defaultRefreshTokenPepper) {
			return fmt.Errorf("in prod/release REFRESH_TOKEN_PEPPER must be set and not default")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
