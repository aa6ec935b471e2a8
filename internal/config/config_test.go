package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotegen/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 499.0, cfg.Quote.DefaultEORFeeUSD)
	assert.Equal(t, "https://open.er-api.com/v6/latest/USD", cfg.Rates.URL)
	assert.Equal(t, 5*time.Second, cfg.Rates.Timeout)
	assert.Equal(t, uint32(3), cfg.Rates.BreakerFailures)
	assert.Equal(t, "tesseract", cfg.OCR.Provider)
	assert.Empty(t, cfg.OCR.Fallback)
	assert.True(t, cfg.OCR.Preprocess)
	assert.Equal(t, int64(10*1024*1024), cfg.OCR.MaxImageBytes())
	assert.Equal(t, 4, cfg.OCR.Concurrency)
	assert.Equal(t, 30, cfg.Render.ValidDays)
	assert.Equal(t, "none", cfg.Storage.Provider)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.Equal(t, 4*time.Hour, cfg.Session.TTL)
	assert.Len(t, cfg.CORS.AllowedOrigins, 3)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("QUOTEGEN_QUOTE_DEFAULT_EOR_FEE_USD", "650")
	t.Setenv("QUOTEGEN_OCR_PROVIDER", "azure")
	t.Setenv("QUOTEGEN_OCR_FALLBACK", "tesseract, static")
	t.Setenv("QUOTEGEN_OCR_PREPROCESS", "false")
	t.Setenv("QUOTEGEN_CORS_ALLOWED_ORIGINS", "https://quotes.example.com")
	t.Setenv("QUOTEGEN_STORAGE_PROVIDER", "s3")
	t.Setenv("QUOTEGEN_SESSION_TTL", "30m")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 650.0, cfg.Quote.DefaultEORFeeUSD)
	assert.Equal(t, "azure", cfg.OCR.Provider)
	assert.Equal(t, []string{"tesseract", "static"}, cfg.OCR.Fallback)
	assert.False(t, cfg.OCR.Preprocess)
	assert.Equal(t, []string{"https://quotes.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "s3", cfg.Storage.Provider)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
}

func TestLoad_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("QUOTEGEN_SERVER_PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Port)
}

func TestLoad_RejectsNegativeFee(t *testing.T) {
	t.Setenv("QUOTEGEN_QUOTE_DEFAULT_EOR_FEE_USD", "-1")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_RejectsZeroConcurrency(t *testing.T) {
	t.Setenv("QUOTEGEN_OCR_CONCURRENCY", "0")

	_, err := config.Load()
	assert.Error(t, err)
}
