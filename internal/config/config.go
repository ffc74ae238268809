package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	FrontendURL string
	AppEnv      string

	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPass      string
	EmailFrom     string
	EmailFromName string
	RedisAddr     string

	// MigrateLegacyPasswords rehashes legacy plaintext passwords with
	// bcrypt on the next successful login.
	MigrateLegacyPasswords bool

	RateLimitRPS   float64
	RateLimitBurst int
}

var ErrDatabaseURLRequired = errors.New("DATABASE_URL is required")

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   getEnv("JWT_SECRET", "secret-key"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		AppEnv:      getEnv("APP_ENV", "production"),

		SMTPHost:      getEnv("SMTP_HOST", "localhost"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUser:      getEnv("SMTP_USER", ""),
		SMTPPass:      getEnv("SMTP_PASS", ""),
		EmailFrom:     getEnv("EMAIL_FROM", "noreply@numdesk.io"),
		EmailFromName: getEnv("EMAIL_FROM_NAME", "NumDesk"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),

		MigrateLegacyPasswords: getEnvBool("MIGRATE_LEGACY_PASSWORDS", false),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
	}

	if cfg.DatabaseURL == "" {
		return nil, ErrDatabaseURLRequired
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
