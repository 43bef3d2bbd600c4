package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Port       string
	LedgerPath string // Local SQLite file for LLM usage accounting

	// LLM provider (OpenAI-compatible chat completions API)
	LLMAPIKey  string
	LLMModel   string
	LLMBaseURL string

	// Admission control for LLM-backed endpoints
	RateLimitRequests      int // Requests per window per client key
	RateLimitWindowSeconds int

	// Hosted BaaS holding community data (families, children, lessons)
	BaaSURL      string
	BaaSIdentity string // Optional service account for server-side writes
	BaaSPassword string

	// Email provider for weekly reports
	EmailAPIKey     string
	ReportRecipient string
	ReportSender    string

	// Admin dashboard gate
	AdminUsername string
	AdminPassword string

	// Optional S3-compatible archive for generated lessons
	ArchiveBucket          string
	ArchiveRegion          string
	ArchiveEndpoint        string
	ArchiveAccessKeyID     string
	ArchiveSecretAccessKey string
	ArchivePathStyle       bool
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		LedgerPath: getEnv("LEDGER_PATH", "./homeroom.db"),

		LLMAPIKey:  getEnv("LLM_API_KEY", ""),
		LLMModel:   getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMBaseURL: getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),

		RateLimitRequests:      getEnvInt("RATE_LIMIT_REQUESTS", 5),
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),

		BaaSURL:      getEnv("BAAS_URL", ""),
		BaaSIdentity: getEnv("BAAS_IDENTITY", ""),
		BaaSPassword: getEnv("BAAS_PASSWORD", ""),

		EmailAPIKey:     getEnv("EMAIL_API_KEY", ""),
		ReportRecipient: getEnv("REPORT_RECIPIENT", ""),
		ReportSender:    getEnv("REPORT_SENDER", "reports@homeroom.local"),

		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		ArchiveBucket:          getEnv("ARCHIVE_BUCKET", ""),
		ArchiveRegion:          getEnv("ARCHIVE_REGION", ""),
		ArchiveEndpoint:        getEnv("ARCHIVE_ENDPOINT", ""),
		ArchiveAccessKeyID:     getEnv("ARCHIVE_ACCESS_KEY_ID", ""),
		ArchiveSecretAccessKey: getEnv("ARCHIVE_SECRET_ACCESS_KEY", ""),
		ArchivePathStyle:       getEnvBool("ARCHIVE_PATH_STYLE", false),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validate ensures configuration values are sensible
func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.LedgerPath == "" {
		return fmt.Errorf("LEDGER_PATH cannot be empty")
	}

	if c.RateLimitRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.RateLimitRequests)
	}

	if c.RateLimitWindowSeconds <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW_SECONDS must be positive, got %d", c.RateLimitWindowSeconds)
	}

	if c.ArchiveBucket != "" && (c.ArchiveAccessKeyID == "") != (c.ArchiveSecretAccessKey == "") {
		return fmt.Errorf("ARCHIVE_ACCESS_KEY_ID and ARCHIVE_SECRET_ACCESS_KEY must be set together")
	}

	if c.AdminUsername != "" && c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD must be set when ADMIN_USERNAME is set")
	}

	return nil
}

// AdminEnabled reports whether the admin dashboard gate is configured.
func (c *Config) AdminEnabled() bool {
	return c.AdminUsername != "" && c.AdminPassword != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
