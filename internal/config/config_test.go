package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.RateLimitRequests != 5 {
		t.Errorf("RateLimitRequests = %d, want 5", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindowSeconds != 60 {
		t.Errorf("RateLimitWindowSeconds = %d, want 60", cfg.RateLimitWindowSeconds)
	}
	if cfg.LLMBaseURL != "https://api.openai.com/v1" {
		t.Errorf("LLMBaseURL = %q, want OpenAI default", cfg.LLMBaseURL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RATE_LIMIT_REQUESTS", "3")
	t.Setenv("LLM_MODEL", "gpt-4o")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want %q", cfg.Port, "9090")
	}
	if cfg.RateLimitRequests != 3 {
		t.Errorf("RateLimitRequests = %d, want 3", cfg.RateLimitRequests)
	}
	if cfg.LLMModel != "gpt-4o" {
		t.Errorf("LLMModel = %q, want %q", cfg.LLMModel, "gpt-4o")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero rate limit", "RATE_LIMIT_REQUESTS", "0"},
		{"negative rate limit", "RATE_LIMIT_REQUESTS", "-1"},
		{"zero window", "RATE_LIMIT_WINDOW_SECONDS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s should fail", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_AdminRequiresPassword(t *testing.T) {
	t.Setenv("ADMIN_USERNAME", "admin")

	if _, err := Load(); err == nil {
		t.Error("Load() with ADMIN_USERNAME but no ADMIN_PASSWORD should fail")
	}

	t.Setenv("ADMIN_PASSWORD", "secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.AdminEnabled() {
		t.Error("AdminEnabled() = false, want true")
	}
}

func TestLoad_ArchiveCredentialsPaired(t *testing.T) {
	t.Setenv("ARCHIVE_BUCKET", "lessons")
	t.Setenv("ARCHIVE_ACCESS_KEY_ID", "key")

	if _, err := Load(); err == nil {
		t.Error("Load() with only one archive credential should fail")
	}
}
