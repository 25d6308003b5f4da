package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/feedesk_test")
	t.Setenv("ENVIRONMENT", "test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "UTC", cfg.ReceiptTimezone)
	assert.Equal(t, 15, cfg.ReceiptDueDays)
	assert.True(t, cfg.ReceiptArchive)
	assert.Equal(t, 365, cfg.ReceiptRetentionDays)
	assert.Equal(t, "dev-secret-change-in-production", cfg.JWTSecret)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownTimezone(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/feedesk_test")
	t.Setenv("RECEIPT_TIMEZONE", "Mars/Olympus_Mons")

	_, err := Load()
	assert.ErrorContains(t, err, "RECEIPT_TIMEZONE")
}

func TestConfig_BrandingAndDates(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/feedesk_test")
	t.Setenv("INSTITUTE_NAME", "Tara Bharti Coaching Centre")
	t.Setenv("INSTITUTE_PHONE", "+91 98765 43210")
	t.Setenv("RECEIPT_TIMEZONE", "Asia/Kolkata")
	t.Setenv("RECEIPT_DUE_DAYS", "30")
	t.Setenv("ALLOWED_ORIGINS", "https://admin.example.com, https://office.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	branding := cfg.Branding()
	assert.Equal(t, "Tara Bharti Coaching Centre", branding.Name)
	assert.Equal(t, "+91 98765 43210", branding.Phone)
	assert.Equal(t, []string{"https://admin.example.com", "https://office.example.com"}, cfg.AllowedOrigins)

	dates, err := cfg.DateFormatter()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", dates.Location.String())

	due, err := dates.NextDueDate("2025-09-02T20:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "03/10/2025", due)
}
