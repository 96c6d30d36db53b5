package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the guest menu auth service
type Config struct {
	// Server
	Port     string
	Host     string
	LogLevel string

	// Database
	DatabaseURL      string
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseSSLMode  string

	// Database pool
	DatabaseMaxConns     int32
	DatabaseMinConns     int32
	DatabaseConnLifetime time.Duration
	DatabaseConnIdleTime time.Duration

	// Identity provider (Ory Kratos)
	KratosPublicURL string
	KratosAdminURL  string

	// Claims
	ClaimsSecret string

	// External OAuth provider for social sign-in
	OIDCProvider string

	// Tenant resolution
	LocalSuffix    string
	TenantCacheTTL time.Duration

	// Verification polling
	VerificationPollInterval time.Duration

	// Route guard policy
	RoutePolicyFile string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Port = getEnvOrDefault("PORT", "9600")
	cfg.Host = getEnvOrDefault("HOST", "0.0.0.0")
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg.DatabaseHost = getEnvOrDefault("DB_HOST", "guestmenu-postgres")
	cfg.DatabasePort = getEnvOrDefault("DB_PORT", "5432")
	cfg.DatabaseName = getEnvOrDefault("DB_NAME", "guestmenu_db")
	cfg.DatabaseUser = getEnvOrDefault("DB_USER", "guestmenu_user")
	cfg.DatabasePassword = os.Getenv("DB_PASSWORD")
	if cfg.DatabasePassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.DatabaseSSLMode = getEnvOrDefault("DB_SSL_MODE", "require")

	var err error
	cfg.DatabaseMaxConns, err = getInt32Env("DB_POOL_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_POOL_MAX_CONNS: %w", err)
	}
	cfg.DatabaseMinConns, err = getInt32Env("DB_POOL_MIN_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_POOL_MIN_CONNS: %w", err)
	}
	cfg.DatabaseConnLifetime, err = getDurationEnv("DB_CONN_MAX_LIFETIME", "1h")
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
	}
	cfg.DatabaseConnIdleTime, err = getDurationEnv("DB_CONN_MAX_IDLE_TIME", "30m")
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_IDLE_TIME: %w", err)
	}

	cfg.KratosPublicURL = os.Getenv("KRATOS_PUBLIC_URL")
	if cfg.KratosPublicURL == "" {
		return nil, fmt.Errorf("KRATOS_PUBLIC_URL is required")
	}
	cfg.KratosAdminURL = os.Getenv("KRATOS_ADMIN_URL")
	if cfg.KratosAdminURL == "" {
		return nil, fmt.Errorf("KRATOS_ADMIN_URL is required")
	}

	cfg.ClaimsSecret = os.Getenv("CLAIMS_SECRET")
	if cfg.ClaimsSecret == "" {
		return nil, fmt.Errorf("CLAIMS_SECRET is required")
	}

	cfg.OIDCProvider = getEnvOrDefault("OIDC_PROVIDER", "google")

	cfg.LocalSuffix = getEnvOrDefault("LOCAL_SUFFIX", "localhost")

	cfg.TenantCacheTTL, err = getDurationEnv("TENANT_CACHE_TTL", "5m")
	if err != nil {
		return nil, fmt.Errorf("invalid TENANT_CACHE_TTL: %w", err)
	}

	cfg.VerificationPollInterval, err = getDurationEnv("VERIFICATION_POLL_INTERVAL", "5s")
	if err != nil {
		return nil, fmt.Errorf("invalid VERIFICATION_POLL_INTERVAL: %w", err)
	}

	cfg.RoutePolicyFile = os.Getenv("ROUTE_POLICY_FILE")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("invalid port: %s", c.Port)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535: %s", c.Port)
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if c.DatabaseMaxConns < 1 {
		return fmt.Errorf("database pool max conns must be at least 1, got: %d", c.DatabaseMaxConns)
	}
	if c.DatabaseMinConns < 0 || c.DatabaseMinConns > c.DatabaseMaxConns {
		return fmt.Errorf("database pool min conns must be between 0 and max conns, got: %d", c.DatabaseMinConns)
	}

	if strings.Contains(c.LocalSuffix, ".") {
		return fmt.Errorf("LOCAL_SUFFIX must be a bare label, got: %s", c.LocalSuffix)
	}

	if c.VerificationPollInterval < time.Second {
		return fmt.Errorf("verification poll interval must be at least 1s, got: %v", c.VerificationPollInterval)
	}

	if c.TenantCacheTTL < time.Second {
		return fmt.Errorf("tenant cache TTL must be at least 1s, got: %v", c.TenantCacheTTL)
	}

	return nil
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key, defaultValue string) (time.Duration, error) {
	return time.ParseDuration(getEnvOrDefault(key, defaultValue))
}

func getInt32Env(key string, defaultValue int32) (int32, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(n), nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
