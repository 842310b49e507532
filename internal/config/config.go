// Package config reads environment-style configuration with per-environment
// presets (development, production, testing) selected by ENV.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds every deployment-tunable option of the service.
type Config struct {
	Env        string
	ListenAddr string
	Debug      bool

	// Security
	AdminAPIKey string

	// CORS
	AllowedOrigins []string

	// Rate limiting
	RateLimitRequests      int
	RateLimitWindowSeconds int

	// Database
	DatabasePath string

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromEmail    string
	OwnerEmail   string
}

// Load builds a Config from the process environment. Call godotenv.Load
// beforehand to pick up a .env file.
func Load() *Config {
	cfg := &Config{
		Env:         strings.ToLower(getEnv("ENV", "development")),
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		Debug:       strings.ToLower(os.Getenv("DEBUG")) == "true",
		AdminAPIKey: getEnv("ADMIN_API_KEY", "change-in-production"),
		AllowedOrigins: splitOrigins(getEnv("ALLOWED_ORIGINS",
			"https://cccops.com,https://www.cccops.com")),
		RateLimitRequests:      getEnvInt("RATE_LIMIT_REQUESTS", 5),
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 3600),
		DatabasePath:           getEnv("DATABASE_PATH", "contact_submissions.db"),
		SMTPHost:               getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:               getEnvInt("SMTP_PORT", 587),
		SMTPUser:               os.Getenv("SMTP_USER"),
		SMTPPassword:           os.Getenv("SMTP_PASSWORD"),
		OwnerEmail:             getEnv("OWNER_EMAIL", "consultingbytriplec@gmail.com"),
	}
	cfg.FromEmail = getEnv("FROM_EMAIL", cfg.SMTPUser)

	switch cfg.Env {
	case "production":
		cfg.Debug = false
	case "testing":
		cfg.Debug = true
		if os.Getenv("DATABASE_PATH") == "" {
			cfg.DatabasePath = "test_contact_submissions.db"
		}
		if os.Getenv("RATE_LIMIT_REQUESTS") == "" {
			cfg.RateLimitRequests = 100
		}
	default: // development
		cfg.Debug = true
		cfg.AllowedOrigins = append(cfg.AllowedOrigins,
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:8000",
			"http://127.0.0.1:8000",
		)
	}

	return cfg
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

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
