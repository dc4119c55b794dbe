package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// App holds runtime configuration derived from env vars or files.
type App struct {
	APIPort     string
	Environment string
	LogLevel    string
	LogEncoding string
	CORSOrigins []string

	// TrustedProxies lists the proxy addresses or CIDRs whose forwarding
	// headers are believed. Empty trusts none and uses the socket address.
	TrustedProxies []string

	// DataFile is the JSON document backing every collection.
	DataFile string

	JWTSecret  string
	JWTExpiry  time.Duration
	JWTIssuer  string
	BcryptCost int

	AdminUsername string
	AdminPassword string

	// LoginRateLimit is the login attempts allowed per client every 15
	// minutes. Zero disables the limit.
	LoginRateLimit int

	BackupSchedule string
	BackupDir      string
	BackupKeep     int

	KafkaBrokers []string
	KafkaTopic   string
}

var (
	// ErrMissingJWTSecret is returned by Validate when no signing secret is configured.
	ErrMissingJWTSecret = errors.New("JWT_SECRET is required")
	// ErrMissingCORSOrigins is returned by Validate when no origin is allowed.
	ErrMissingCORSOrigins = errors.New("CORS_ORIGINS must name at least one origin")
)

// FromEnv loads the application configuration from environment variables.
func FromEnv() App {
	return App{
		APIPort:     getEnv("API_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "production"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogEncoding: getEnv("LOG_ENCODING", "json"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),

		TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),

		DataFile: getEnv("DATA_FILE", "data/db.json"),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		JWTExpiry:  time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		JWTIssuer:  getEnv("JWT_ISSUER", "catalog-service"),
		BcryptCost: getEnvInt("BCRYPT_COST", 10),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		LoginRateLimit: getEnvInt("LOGIN_RATE_LIMIT", 10),

		BackupSchedule: os.Getenv("BACKUP_SCHEDULE"),
		BackupDir:      getEnv("BACKUP_DIR", "data/backups"),
		BackupKeep:     getEnvInt("BACKUP_KEEP", 7),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "catalog-changes"),
	}
}

// Validate reports configuration the process cannot start without.
func (a App) Validate() error {
	if strings.TrimSpace(a.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	if len(a.CORSOrigins) == 0 {
		return ErrMissingCORSOrigins
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
