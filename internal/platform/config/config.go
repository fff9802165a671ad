package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	StorageBackend string
	LogLevel       string
	LogFormat      string // "json" or "plaintext"

	RateLimit          string // ulule limiter format, e.g. "300-M"
	CORSAllowedOrigins []string

	AutoApproveHorizonMonths int
	PostalLookupEnabled      bool

	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
	SMTPFrom       string
	ApproverEmails []string

	PosthogAPIKey   string
	PosthogEndpoint string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("STORAGE_BACKEND", StoragePostgres)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("AUTO_APPROVE_HORIZON_MONTHS", 6)
	v.SetDefault("POSTAL_LOOKUP_ENABLED", true)
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM", "register@localhost")
	v.SetDefault("APPROVER_EMAILS", "")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")

	// Environment variables override defaults and .env values.
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:              v.GetString("PGSQL_URL"),
		Port:                     v.GetString("PORT"),
		IsProduction:             v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:            v.GetBool("ENABLE_DB_CHECK"),
		StorageBackend:           strings.ToLower(v.GetString("STORAGE_BACKEND")),
		LogLevel:                 strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:                strings.ToLower(v.GetString("LOG_FORMAT")),
		RateLimit:                v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:       splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		AutoApproveHorizonMonths: v.GetInt("AUTO_APPROVE_HORIZON_MONTHS"),
		PostalLookupEnabled:      v.GetBool("POSTAL_LOOKUP_ENABLED"),
		SMTPHost:                 v.GetString("SMTP_HOST"),
		SMTPPort:                 v.GetInt("SMTP_PORT"),
		SMTPUser:                 v.GetString("SMTP_USER"),
		SMTPPassword:             v.GetString("SMTP_PASSWORD"),
		SMTPFrom:                 v.GetString("SMTP_FROM"),
		ApproverEmails:           splitList(v.GetString("APPROVER_EMAILS")),
		PosthogAPIKey:            v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:          v.GetString("POSTHOG_ENDPOINT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	switch cfg.StorageBackend {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StorageMemory:
		log.Println("Warning: STORAGE_BACKEND=memory, data will not survive a restart.")
	default:
		log.Printf("Warning: unknown STORAGE_BACKEND %q. Defaulting to %s.\n", cfg.StorageBackend, StoragePostgres)
		cfg.StorageBackend = StoragePostgres
	}
	if cfg.AutoApproveHorizonMonths <= 0 {
		log.Printf("Warning: invalid AUTO_APPROVE_HORIZON_MONTHS (%d). Defaulting to 6.\n", cfg.AutoApproveHorizonMonths)
		cfg.AutoApproveHorizonMonths = 6
	}
	if cfg.SMTPHost != "" && len(cfg.ApproverEmails) == 0 {
		log.Println("Warning: SMTP_HOST is set but APPROVER_EMAILS is empty. No notifications will be sent.")
	}

	return cfg, nil
}

// splitList parses a comma separated list, dropping empty entries.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
