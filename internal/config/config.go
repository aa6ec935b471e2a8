package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	CORS    CORSConfig
	Quote   QuoteConfig
	Rates   RatesConfig
	OCR     OCRConfig
	Render  RenderConfig
	Storage StorageConfig
	Email   EmailConfig
	Session SessionConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// QuoteConfig holds quote calculation settings.
type QuoteConfig struct {
	DefaultEORFeeUSD float64 `mapstructure:"default_eor_fee_usd"`
}

// RatesConfig holds exchange rate lookup settings.
type RatesConfig struct {
	URL             string        `mapstructure:"url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerCooldown time.Duration `mapstructure:"breaker_cooldown"`
}

// OCRConfig holds text recognition settings.
type OCRConfig struct {
	Provider          string        `mapstructure:"provider"`
	Fallback          []string      `mapstructure:"fallback"`
	Preprocess        bool          `mapstructure:"preprocess"`
	Language          string        `mapstructure:"language"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxImageSizeMB    int64         `mapstructure:"max_image_size_mb"`
	AzureEndpoint     string        `mapstructure:"azure_endpoint"`
	AzureKey          string        `mapstructure:"azure_key"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	TesseractPath     string        `mapstructure:"tesseract_path"`
	StaticText        string        `mapstructure:"static_text"`
	Concurrency       int           `mapstructure:"concurrency"`
}

// MaxImageBytes returns the upload size limit in bytes.
func (o *OCRConfig) MaxImageBytes() int64 {
	return o.MaxImageSizeMB * 1024 * 1024
}

// RenderConfig holds quote document settings.
type RenderConfig struct {
	ValidDays int `mapstructure:"valid_days"`
}

// StorageConfig holds quote publishing settings. Provider "none" disables publishing.
type StorageConfig struct {
	Provider      string `mapstructure:"provider"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// SessionConfig holds wizard session settings.
type SessionConfig struct {
	TTL         time.Duration `mapstructure:"ttl"`
	MaxSessions int           `mapstructure:"max_sessions"`
}

// Load reads configuration from environment variables with the QUOTEGEN_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("QUOTEGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:5173,http://127.0.0.1:5173,http://localhost:8080")

	// Quote defaults
	v.SetDefault("quote.default_eor_fee_usd", 499)

	// Rates defaults
	v.SetDefault("rates.url", "https://open.er-api.com/v6/latest/USD")
	v.SetDefault("rates.timeout", "5s")
	v.SetDefault("rates.breaker_failures", 3)
	v.SetDefault("rates.breaker_cooldown", "1m")

	// OCR defaults
	v.SetDefault("ocr.provider", "tesseract")
	v.SetDefault("ocr.fallback", "")
	v.SetDefault("ocr.preprocess", true)
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.timeout", "60s")
	v.SetDefault("ocr.max_image_size_mb", 10)
	v.SetDefault("ocr.azure_endpoint", "")
	v.SetDefault("ocr.azure_key", "")
	v.SetDefault("ocr.requests_per_second", 2)
	v.SetDefault("ocr.tesseract_path", "tesseract")
	v.SetDefault("ocr.static_text", "")
	v.SetDefault("ocr.concurrency", 4)

	// Render defaults
	v.SetDefault("render.valid_days", 30)

	// Storage defaults
	v.SetDefault("storage.provider", "none")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "quotegen-quotes")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.presign_expiry", 604800)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "quotes@example.com")
	v.SetDefault("email.from_name", "Ontop Quotes")

	// Session defaults
	v.SetDefault("session.ttl", "4h")
	v.SetDefault("session.max_sessions", 1000)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "QUOTEGEN_SERVER_PORT",
		"server.read_timeout":       "QUOTEGEN_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "QUOTEGEN_SERVER_WRITE_TIMEOUT",
		"server.environment":        "QUOTEGEN_SERVER_ENVIRONMENT",
		"log.level":                 "QUOTEGEN_LOG_LEVEL",
		"cors.allowed_origins":      "QUOTEGEN_CORS_ALLOWED_ORIGINS",
		"quote.default_eor_fee_usd": "QUOTEGEN_QUOTE_DEFAULT_EOR_FEE_USD",
		"rates.url":                 "QUOTEGEN_RATES_URL",
		"rates.timeout":             "QUOTEGEN_RATES_TIMEOUT",
		"rates.breaker_failures":    "QUOTEGEN_RATES_BREAKER_FAILURES",
		"rates.breaker_cooldown":    "QUOTEGEN_RATES_BREAKER_COOLDOWN",
		"ocr.provider":              "QUOTEGEN_OCR_PROVIDER",
		"ocr.fallback":              "QUOTEGEN_OCR_FALLBACK",
		"ocr.preprocess":            "QUOTEGEN_OCR_PREPROCESS",
		"ocr.language":              "QUOTEGEN_OCR_LANGUAGE",
		"ocr.timeout":               "QUOTEGEN_OCR_TIMEOUT",
		"ocr.max_image_size_mb":     "QUOTEGEN_OCR_MAX_IMAGE_SIZE_MB",
		"ocr.azure_endpoint":        "QUOTEGEN_OCR_AZURE_ENDPOINT",
		"ocr.azure_key":             "QUOTEGEN_OCR_AZURE_KEY",
		"ocr.requests_per_second":   "QUOTEGEN_OCR_REQUESTS_PER_SECOND",
		"ocr.tesseract_path":        "QUOTEGEN_OCR_TESSERACT_PATH",
		"ocr.static_text":           "QUOTEGEN_OCR_STATIC_TEXT",
		"ocr.concurrency":           "QUOTEGEN_OCR_CONCURRENCY",
		"render.valid_days":         "QUOTEGEN_RENDER_VALID_DAYS",
		"storage.provider":          "QUOTEGEN_STORAGE_PROVIDER",
		"storage.region":            "QUOTEGEN_STORAGE_REGION",
		"storage.bucket":            "QUOTEGEN_STORAGE_BUCKET",
		"storage.endpoint":          "QUOTEGEN_STORAGE_ENDPOINT",
		"storage.access_key":        "QUOTEGEN_STORAGE_ACCESS_KEY",
		"storage.secret_key":        "QUOTEGEN_STORAGE_SECRET_KEY",
		"storage.presign_expiry":    "QUOTEGEN_STORAGE_PRESIGN_EXPIRY",
		"email.provider":            "QUOTEGEN_EMAIL_PROVIDER",
		"email.region":              "QUOTEGEN_EMAIL_REGION",
		"email.from_address":        "QUOTEGEN_EMAIL_FROM_ADDRESS",
		"email.from_name":           "QUOTEGEN_EMAIL_FROM_NAME",
		"session.ttl":               "QUOTEGEN_SESSION_TTL",
		"session.max_sessions":      "QUOTEGEN_SESSION_MAX_SESSIONS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if QUOTEGEN_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("QUOTEGEN_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level: v.GetString("log.level"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Quote = QuoteConfig{
		DefaultEORFeeUSD: v.GetFloat64("quote.default_eor_fee_usd"),
	}
	cfg.Rates = RatesConfig{
		URL:             v.GetString("rates.url"),
		Timeout:         v.GetDuration("rates.timeout"),
		BreakerFailures: v.GetUint32("rates.breaker_failures"),
		BreakerCooldown: v.GetDuration("rates.breaker_cooldown"),
	}
	cfg.OCR = OCRConfig{
		Provider:          v.GetString("ocr.provider"),
		Fallback:          splitList(v.GetString("ocr.fallback")),
		Preprocess:        v.GetBool("ocr.preprocess"),
		Language:          v.GetString("ocr.language"),
		Timeout:           v.GetDuration("ocr.timeout"),
		MaxImageSizeMB:    v.GetInt64("ocr.max_image_size_mb"),
		AzureEndpoint:     v.GetString("ocr.azure_endpoint"),
		AzureKey:          v.GetString("ocr.azure_key"),
		RequestsPerSecond: v.GetFloat64("ocr.requests_per_second"),
		TesseractPath:     v.GetString("ocr.tesseract_path"),
		StaticText:        v.GetString("ocr.static_text"),
		Concurrency:       v.GetInt("ocr.concurrency"),
	}
	cfg.Render = RenderConfig{
		ValidDays: v.GetInt("render.valid_days"),
	}
	cfg.Storage = StorageConfig{
		Provider:      v.GetString("storage.provider"),
		Region:        v.GetString("storage.region"),
		Bucket:        v.GetString("storage.bucket"),
		Endpoint:      v.GetString("storage.endpoint"),
		AccessKey:     v.GetString("storage.access_key"),
		SecretKey:     v.GetString("storage.secret_key"),
		PresignExpiry: v.GetInt64("storage.presign_expiry"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.Session = SessionConfig{
		TTL:         v.GetDuration("session.ttl"),
		MaxSessions: v.GetInt("session.max_sessions"),
	}

	if cfg.Quote.DefaultEORFeeUSD < 0 {
		return nil, fmt.Errorf("quote.default_eor_fee_usd must not be negative")
	}
	if cfg.OCR.MaxImageSizeMB <= 0 {
		return nil, fmt.Errorf("ocr.max_image_size_mb must be positive")
	}
	if cfg.OCR.Concurrency <= 0 {
		return nil, fmt.Errorf("ocr.concurrency must be positive")
	}

	return cfg, nil
}

// splitList parses a comma-separated string, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
