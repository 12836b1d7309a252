package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	// SMTP Configuration (Gmail relay by default)
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	// ContactEmail overrides the notification recipient; defaults to SMTPUser
	ContactEmail string
	// Site identity used in outgoing email copy
	SiteName string
	SiteURL  string
	// Resume download
	ResumePath string
	// Rate Limiting Configuration
	RateLimitWindow time.Duration
	RateLimitMax    int
	// Upper bound on transport verification and each send
	MailTimeout time.Duration
	// Redis/Upstash Configuration (optional, rate-limit store)
	UpstashRedisURL      string
	UpstashRedisPassword string
}

func LoadConfig() (*Config, error) {
	// Load .env file (effective locally, ignored in production if absent)
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPass:     getEnv("SMTP_PASS", ""),
		ContactEmail: getEnv("CONTACT_EMAIL", ""),
		SiteName:     getEnv("SITE_NAME", "Portfolio"),
		SiteURL:      strings.TrimRight(getEnv("SITE_URL", "http://localhost:3000"), "/"),
		ResumePath:   getEnv("RESUME_PATH", "public/resume/resume.pdf"),
		// 5 submissions per 15 minutes per client
		RateLimitWindow: time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 900)) * time.Second,
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX_REQUESTS", 5),
		MailTimeout:     time.Duration(getEnvInt("MAIL_TIMEOUT_SECONDS", 10)) * time.Second,
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
	}

	if cfg.ContactEmail == "" {
		cfg.ContactEmail = cfg.SMTPUser
	}

	// Missing credentials are surfaced as 503 per request, never a crash
	if cfg.SMTPUser == "" || cfg.SMTPPass == "" {
		log.Println("WARNING: SMTP_USER/SMTP_PASS not configured. Contact form will respond 503.")
	}

	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
