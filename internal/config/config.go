package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/postforge/postforge/internal/platform"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Content source configuration
	FirecrawlAPIKey  string
	FirecrawlBaseURL string
	MaxContentChars  int

	// Generator configuration
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAIModel    string
	LLMTemperature float64

	// Generation defaults
	DefaultAudience string
	DefaultTone     string
	Platforms       []string

	// Archive configuration
	OutputsDir           string
	StorageAccount       string
	StorageContainer     string
	ArchiveRetentionDays int

	// Delivery configuration
	WebhookURL    string
	DeliveryEmail string
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		FirecrawlAPIKey:  getEnv("FIRECRAWL_API_KEY", ""),
		FirecrawlBaseURL: getEnv("FIRECRAWL_BASE_URL", "https://api.firecrawl.dev"),
		MaxContentChars:  getIntEnv("MAX_CONTENT_CHARS", 8000),

		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		LLMTemperature: getFloatEnv("OPENAI_TEMPERATURE", 0.7),

		DefaultAudience: getEnv("DEFAULT_AUDIENCE", "general professional audience"),
		DefaultTone:     getEnv("DEFAULT_TONE", "informative and engaging"),
		Platforms:       getSliceEnv("PLATFORMS", platform.Names()),

		OutputsDir:           getEnv("OUTPUTS_DIR", "outputs"),
		StorageAccount:       getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer:     getEnv("AZURE_STORAGE_CONTAINER", "posts"),
		ArchiveRetentionDays: getIntEnv("ARCHIVE_RETENTION_DAYS", 90),

		WebhookURL:    getEnv("DELIVERY_WEBHOOK_URL", ""),
		DeliveryEmail: getEnv("DELIVERY_EMAIL", ""),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getIntEnv("SMTP_PORT", 587),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}

	if len(c.Platforms) == 0 {
		return fmt.Errorf("PLATFORMS must name at least one platform")
	}
	for _, name := range c.Platforms {
		if !platform.IsSupported(name) {
			return fmt.Errorf("PLATFORMS contains unsupported platform %q (supported: %s)",
				name, strings.Join(platform.Names(), ", "))
		}
	}

	if c.DeliveryEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when DELIVERY_EMAIL is set")
		}
	}

	if c.ArchiveRetentionDays < 0 {
		return fmt.Errorf("ARCHIVE_RETENTION_DAYS must not be negative")
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
