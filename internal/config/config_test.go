package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("RATE_LIMIT_REQUESTS", "")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "")
	t.Setenv("DATABASE_PATH", "")
	cfg := Load()

	if cfg.Env != "development" {
		t.Errorf("expected default env=development, got %q", cfg.Env)
	}
	if cfg.RateLimitRequests != 5 {
		t.Errorf("expected default rate limit 5, got %d", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindowSeconds != 3600 {
		t.Errorf("expected default window 3600s, got %d", cfg.RateLimitWindowSeconds)
	}
	if cfg.DatabasePath != "contact_submissions.db" {
		t.Errorf("unexpected database path %q", cfg.DatabasePath)
	}
}

func TestLoad_DevelopmentAddsLocalhostOrigins(t *testing.T) {
	t.Setenv("ENV", "development")
	cfg := Load()

	found := false
	for _, o := range cfg.AllowedOrigins {
		if o == "http://localhost:3000" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected localhost origin in development, got %v", cfg.AllowedOrigins)
	}
	if !cfg.Debug {
		t.Error("expected debug=true in development")
	}
}

func TestLoad_ProductionForcesDebugOff(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("DEBUG", "true")
	cfg := Load()

	if cfg.Debug {
		t.Error("expected debug forced off in production")
	}
}

func TestLoad_TestingPreset(t *testing.T) {
	t.Setenv("ENV", "testing")
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("RATE_LIMIT_REQUESTS", "")
	cfg := Load()

	if cfg.DatabasePath != "test_contact_submissions.db" {
		t.Errorf("expected testing db path, got %q", cfg.DatabasePath)
	}
	if cfg.RateLimitRequests != 100 {
		t.Errorf("expected raised testing rate cap, got %d", cfg.RateLimitRequests)
	}
}

func TestLoad_ExplicitOverridesBeatPresets(t *testing.T) {
	t.Setenv("ENV", "testing")
	t.Setenv("RATE_LIMIT_REQUESTS", "7")
	t.Setenv("DATABASE_PATH", "/tmp/custom.db")
	cfg := Load()

	if cfg.RateLimitRequests != 7 {
		t.Errorf("expected explicit rate cap 7, got %d", cfg.RateLimitRequests)
	}
	if cfg.DatabasePath != "/tmp/custom.db" {
		t.Errorf("expected explicit db path, got %q", cfg.DatabasePath)
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("RATE_LIMIT_REQUESTS", "not-a-number")
	cfg := Load()

	if cfg.RateLimitRequests != 5 {
		t.Errorf("expected fallback to 5 for invalid int, got %d", cfg.RateLimitRequests)
	}
}
