package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	JWTSecret   string
	TokenTTL    time.Duration

	// Email Configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string

	// Counter reconciliation job
	ReconcileInterval time.Duration

	// Seeded administrator account
	AdminEmail    string
	AdminPassword string
}

func Load() *Config {
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "2525"))
	tokenTTL, err := time.ParseDuration(getEnv("TOKEN_TTL", "168h"))
	if err != nil {
		tokenTTL = 168 * time.Hour
	}
	reconcileInterval, err := time.ParseDuration(getEnv("RECONCILE_INTERVAL", "1h"))
	if err != nil {
		reconcileInterval = time.Hour
	}

	return &Config{
		Port:        getEnv("PORT", "3001"),
		Env:         getEnv("APP_ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", "user:password@tcp(localhost:3306)/farmify?charset=utf8mb4&parseTime=True&loc=Local"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key"),
		TokenTTL:    tokenTTL,

		// Email settings
		SMTPHost:     getEnv("SMTP_HOST", "sandbox.smtp.mailtrap.io"),
		SMTPPort:     smtpPort,
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@farmify.com"),
		FromName:     getEnv("FROM_NAME", "Farmify"),

		ReconcileInterval: reconcileInterval,

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@farmify.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
