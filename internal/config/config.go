package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sjperalta/feedesk-api/internal/receipt"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DatabaseURL string

	// JWT (tokens are issued by the school backend, only verified here)
	JWTSecret string

	// Storage
	StoragePath string

	// Background Workers
	WorkerCount int

	// CORS
	AllowedOrigins []string

	// Email (Resend)
	ResendAPIKey string
	FromEmail    string

	// Sentry
	SentryDSN string

	// Receipts
	ReceiptTimezone      string
	ReceiptDueDays       int
	ReceiptArchive       bool
	ReceiptRetentionDays int
	ReceiptFontPath      string // UTF-8 TrueType font for PDF downloads

	// Institution branding printed in every receipt header
	InstituteName     string
	InstituteTagline  string
	InstituteAddress  string
	InstitutePhone    string
	InstituteEmail    string
	InstituteWebsite  string
	InstituteLogoPath string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		StoragePath:          getEnv("STORAGE_PATH", "./storage"),
		WorkerCount:          getEnvAsInt("WORKER_COUNT", 5),
		AllowedOrigins:       getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		ResendAPIKey:         getEnv("RESEND_API_KEY", ""),
		FromEmail:            getEnv("FROM_EMAIL", "receipts@feedesk.app"),
		SentryDSN:            getEnv("SENTRY_DSN", ""),
		ReceiptTimezone:      getEnv("RECEIPT_TIMEZONE", "UTC"),
		ReceiptDueDays:       getEnvAsInt("RECEIPT_DUE_DAYS", receipt.DefaultDueDays),
		ReceiptArchive:       getEnvAsBool("RECEIPT_ARCHIVE", true),
		ReceiptRetentionDays: getEnvAsInt("RECEIPT_RETENTION_DAYS", 365),
		ReceiptFontPath:      getEnv("RECEIPT_FONT_PATH", ""),
		InstituteName:        getEnv("INSTITUTE_NAME", "FeeDesk Institute"),
		InstituteTagline:     getEnv("INSTITUTE_TAGLINE", ""),
		InstituteAddress:     getEnv("INSTITUTE_ADDRESS", ""),
		InstitutePhone:       getEnv("INSTITUTE_PHONE", ""),
		InstituteEmail:       getEnv("INSTITUTE_EMAIL", ""),
		InstituteWebsite:     getEnv("INSTITUTE_WEBSITE", ""),
		InstituteLogoPath:    getEnv("INSTITUTE_LOGO_PATH", ""),
	}

	// Validate required configuration
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	// Set default JWT secret for development
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production"
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	if cfg.ReceiptDueDays < 0 {
		return nil, fmt.Errorf("RECEIPT_DUE_DAYS must not be negative")
	}

	return cfg, nil
}

// Location resolves RECEIPT_TIMEZONE. Payment dates are converted to this
// zone before the calendar date is taken.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ReceiptTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid RECEIPT_TIMEZONE %q: %w", c.ReceiptTimezone, err)
	}
	return loc, nil
}

// Branding returns the receipt header for the configured institution.
func (c *Config) Branding() receipt.Branding {
	return receipt.Branding{
		Name:     c.InstituteName,
		Tagline:  c.InstituteTagline,
		Address:  c.InstituteAddress,
		Phone:    c.InstitutePhone,
		Email:    c.InstituteEmail,
		Website:  c.InstituteWebsite,
		LogoPath: c.InstituteLogoPath,
	}
}

// DateFormatter builds the receipt date formatter for the configured zone
// and due-date offset.
func (c *Config) DateFormatter() (receipt.DateFormatter, error) {
	loc, err := c.Location()
	if err != nil {
		return receipt.DateFormatter{}, err
	}
	return receipt.DateFormatter{Location: loc, DueDays: c.ReceiptDueDays}, nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool reads an environment variable as boolean
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
