package config

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URL", "PORT", "JWT_SECRET", "JWT_EXPIRY", "CORS_ALLOWED_ORIGINS", "REQUEST_TIMEOUT", "PUBLIC_HOST",
		"MAIL_PROVIDER", "MAIL_HOST", "MAIL_PORT", "MAIL_SECURE", "MAIL_USER", "MAIL_PASS", "MAIL_FROM", "MAIL_FROM_NAME",
		"MAIL_BATCH_SIZE", "MAIL_BATCH_DELAY", "MAIL_RATE_LIMIT_MAX", "MAIL_RATE_LIMIT_WINDOW", "MAIL_SEND_TIMEOUT",
		"SMTP_HOST", "SMTP_USER", "SMTP_PASS", "AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := fromEnv("development")

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 8*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, defaultJWTSecret, cfg.JWTSecret)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 50, cfg.Mail.BatchSize)
	assert.Equal(t, 5, cfg.Mail.RateLimitMax)
	assert.Equal(t, time.Second, cfg.Mail.RateLimitWindow)
	assert.Equal(t, "SKK Events", cfg.Mail.FromName)
	assert.Empty(t, cfg.Mail.Host)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.org, https://b.org ,")
	t.Setenv("SMTP_HOST", "smtp.legacy.org")
	t.Setenv("MAIL_USER", "events@skk.org")
	t.Setenv("MAIL_SECURE", "true")
	t.Setenv("MAIL_PORT", "465")
	t.Setenv("MAIL_BATCH_DELAY", "750")
	t.Setenv("MAIL_SEND_TIMEOUT", "45s")

	cfg, err := fromEnv("development")

	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, []string{"https://a.org", "https://b.org"}, cfg.AllowedOrigins)
	assert.Equal(t, "smtp.legacy.org", cfg.Mail.Host, "legacy SMTP_HOST is honoured")
	assert.Equal(t, "events@skk.org", cfg.Mail.From, "from falls back to the mail user")
	assert.True(t, cfg.Mail.Secure)
	assert.Equal(t, 465, cfg.Mail.Port)
	assert.Equal(t, 750*time.Millisecond, cfg.Mail.BatchDelay)
	assert.Equal(t, 45*time.Second, cfg.Mail.SendTimeout)
}

func TestFromEnv_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAIL_PORT", "smtp")
	t.Setenv("MAIL_SECURE", "maybe")
	t.Setenv("MAIL_BATCH_SIZE", "0")

	_, err := fromEnv("development")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAIL_PORT")
	assert.Contains(t, err.Error(), "MAIL_SECURE")
	assert.Contains(t, err.Error(), "MAIL_BATCH_SIZE")
}

func TestFromEnv_ProductionNeedsSecret(t *testing.T) {
	clearEnv(t)

	_, err := fromEnv("production")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := fromEnv("production")
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "production", "warn")
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), "production logs are JSON")
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "v", line["k"])

	buf.Reset()
	newLogger(&buf, "development", "").Debug("quiet")
	assert.Empty(t, buf.String(), "default level is info")
}
