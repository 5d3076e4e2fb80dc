// Package config builds the process configuration once at startup.
// Components receive the parts they need explicitly; there is no
// global settings singleton.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the server.
type Config struct {
	AppName string
	Env     string // development|staging|production
	Port    string

	LogLevel string

	DatabaseURL string

	JWT JWTConfig
	SSO SSOConfig
}

// JWTConfig holds session-token settings.
type JWTConfig struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// SSOConfig holds the OIDC relying-party settings.
type SSOConfig struct {
	ClientID     string
	ClientSecret string
	IssuerURL    string
	RedirectURL  string
}

// Load builds Config from the environment. Required variables produce an
// error rather than a partial config.
func Load() (Config, error) {
	cfg := Config{
		AppName:  getEnv("APP_NAME", "electa"),
		Env:      getEnv("APP_ENV", "development"),
		Port:     getEnv("APP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.DatabaseURL, err = mustEnv("DATABASE_URL"); err != nil {
		return cfg, err
	}

	if cfg.JWT.Secret, err = mustEnv("JWT_SECRET"); err != nil {
		return cfg, err
	}
	cfg.JWT.Issuer = getEnv("JWT_ISSUER", "electa")
	cfg.JWT.TokenTTL = time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60)) * time.Minute

	cfg.SSO = SSOConfig{
		ClientID:     getEnv("SSO_CLIENT_ID", "electa-client"),
		ClientSecret: getEnv("SSO_CLIENT_SECRET", ""),
		IssuerURL:    getEnv("SSO_ISSUER_URL", "http://localhost:8090"),
		RedirectURL:  getEnv("SSO_REDIRECT_URL", "http://localhost:8080/auth/callback"),
	}

	return cfg, nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnv(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("%s environment variable is required", key)
	}
	return v, nil
}
