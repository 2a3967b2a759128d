// Package config loads and validates environment configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the runtime configuration for the server.
type Config struct {
	Port string
	Host string

	// Identity endpoint settings.
	IdentityBaseURL string
	IdentityAPIKey  string
	IdentityTimeout time.Duration

	// Session slot backend: "redis" or "file".
	SessionBackend string
	SessionFile    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	// Optional Postgres for recipe persistence.
	DatabaseDSN string

	// Optional infrastructure.
	ConsulAddr  string
	ConsulToken string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Load reads configuration from the environment, applying defaults.
func Load() Config {
	return Config{
		Port: GetEnvOrDefault("PORT", "8080"),
		Host: GetEnvOrDefault("HOST", "localhost"),

		IdentityBaseURL: GetEnvOrDefault("IDENTITY_BASE_URL", "https://identitytoolkit.googleapis.com/v1"),
		IdentityAPIKey:  os.Getenv("IDENTITY_API_KEY"),
		IdentityTimeout: getEnvDuration("IDENTITY_TIMEOUT", 10*time.Second),

		SessionBackend: GetEnvOrDefault("SESSION_BACKEND", "file"),
		SessionFile:    GetEnvOrDefault("SESSION_FILE", "session.json"),
		RedisAddr:      GetEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getEnvInt("REDIS_DB", 0),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		ConsulAddr:  os.Getenv("CONSUL_HTTP_ADDR"),
		ConsulToken: os.Getenv("CONSUL_HTTP_TOKEN"),

		ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.IdentityAPIKey == "" {
		return fmt.Errorf("IDENTITY_API_KEY is required")
	}
	switch c.SessionBackend {
	case "redis", "file":
	default:
		return fmt.Errorf("SESSION_BACKEND must be redis or file, got %q", c.SessionBackend)
	}
	return nil
}

// ValidateEnv validates that all required environment variables are set.
func ValidateEnv(requiredVars []string) error {
	var missing []string

	for _, name := range requiredVars {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// GetEnvOrDefault retrieves an environment variable or returns a default value.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
