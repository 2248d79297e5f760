// Package config loads the application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Telegram TelegramConfig
	Oracle   OracleConfig
	PDF      PDFConfig
	Extract  ExtractConfig
}

type TelegramConfig struct {
	Token string
	Debug bool
}

// OracleConfig holds Azure OpenAI connection settings.
type OracleConfig struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Deployment string
	Timeout    time.Duration
}

// PDFConfig holds rasterization settings.
type PDFConfig struct {
	MaxPages    int
	DPI         int
	JPEGQuality int
}

type ExtractConfig struct {
	Mode            string // "freeform" or "structured"
	DefaultCurrency string // empty means no default-currency hint
	Workers         int
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Telegram: TelegramConfig{
			Token: getEnv("TELEGRAM_BOT_TOKEN", ""),
			Debug: getEnvAsBool("TELEGRAM_DEBUG", false),
		},
		Oracle: OracleConfig{
			Endpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
			APIKey:     getEnv("AZURE_OPENAI_API_KEY", ""),
			APIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-08-01-preview"),
			Deployment: getEnv("AZURE_OPENAI_DEPLOYMENT", "gpt-4o"),
			Timeout:    getEnvAsDuration("ORACLE_TIMEOUT", 60*time.Second),
		},
		PDF: PDFConfig{
			MaxPages:    getEnvAsInt("PDF_MAX_PAGES", 4),
			DPI:         getEnvAsInt("PDF_DPI", 200),
			JPEGQuality: getEnvAsInt("PDF_JPEG_QUALITY", 85),
		},
		Extract: ExtractConfig{
			Mode:            getEnv("EXTRACTION_MODE", "freeform"),
			DefaultCurrency: getEnv("DEFAULT_CURRENCY", ""),
			Workers:         getEnvAsInt("WORKERS", 4),
		},
	}
}

// Validate checks required values and ranges. The process must not start
// when this fails.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if c.Oracle.Endpoint == "" {
		return fmt.Errorf("AZURE_OPENAI_ENDPOINT is required")
	}
	if c.Oracle.APIKey == "" {
		return fmt.Errorf("AZURE_OPENAI_API_KEY is required")
	}
	if c.Oracle.Deployment == "" {
		return fmt.Errorf("AZURE_OPENAI_DEPLOYMENT must not be empty")
	}
	switch c.Extract.Mode {
	case "freeform", "structured":
	default:
		return fmt.Errorf("EXTRACTION_MODE must be \"freeform\" or \"structured\", got %q", c.Extract.Mode)
	}
	if c.PDF.MaxPages < 1 {
		return fmt.Errorf("PDF_MAX_PAGES must be at least 1, got %d", c.PDF.MaxPages)
	}
	if c.PDF.DPI < 36 || c.PDF.DPI > 600 {
		return fmt.Errorf("PDF_DPI must be between 36 and 600, got %d", c.PDF.DPI)
	}
	if c.PDF.JPEGQuality < 1 || c.PDF.JPEGQuality > 100 {
		return fmt.Errorf("PDF_JPEG_QUALITY must be between 1 and 100, got %d", c.PDF.JPEGQuality)
	}
	if c.Extract.Workers < 1 {
		return fmt.Errorf("WORKERS must be at least 1, got %d", c.Extract.Workers)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
