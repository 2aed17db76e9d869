// Package config loads runtime configuration from environment variables,
// with a .env file honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Scraper    ScraperConfig
	Browser    BrowserConfig
	Extraction ExtractionConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	API        APIConfig
	Output     OutputConfig
	Logging    LoggingConfig
}

type ScraperConfig struct {
	BaseURL          string
	MaxCategories    int
	MaxRetries       int
	AdaptiveMinDelay time.Duration
	AdaptiveMaxDelay time.Duration
}

type BrowserConfig struct {
	Headless    bool
	Timeout     time.Duration
	UserAgent   string
	ProxyServer string
}

type ExtractionConfig struct {
	MaxItemsPerCategory int
	MaxScrolls          int
	ScrollPause         time.Duration
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Enabled bool
	Addr    string
	Stream  string
}

type APIConfig struct {
	Enabled bool
	Port    string
}

type OutputConfig struct {
	Dir       string
	WriteJSON bool
	WriteCSV  bool
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment. A missing .env file is not
// an error; explicit environment variables always win over file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Scraper: ScraperConfig{
			BaseURL:          getEnv("SCRAPER_BASE_URL", "https://www.amazon.in"),
			MaxCategories:    getEnvInt("SCRAPER_MAX_CATEGORIES", 0),
			MaxRetries:       getEnvInt("SCRAPER_MAX_RETRIES", 2),
			AdaptiveMinDelay: getEnvDuration("SCRAPER_ADAPTIVE_MIN_DELAY", 2*time.Second),
			AdaptiveMaxDelay: getEnvDuration("SCRAPER_ADAPTIVE_MAX_DELAY", 30*time.Second),
		},
		Browser: BrowserConfig{
			Headless:    getEnvBool("BROWSER_HEADLESS", true),
			Timeout:     getEnvDuration("BROWSER_TIMEOUT", 30*time.Second),
			UserAgent:   getEnv("BROWSER_USER_AGENT", ""),
			ProxyServer: getEnv("BROWSER_PROXY", ""),
		},
		Extraction: ExtractionConfig{
			MaxItemsPerCategory: getEnvInt("EXTRACTION_MAX_ITEMS", 100),
			MaxScrolls:          getEnvInt("EXTRACTION_MAX_SCROLLS", 8),
			ScrollPause:         getEnvDuration("EXTRACTION_SCROLL_PAUSE", 2*time.Second),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "bestsellers"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled: getEnvBool("REDIS_ENABLED", false),
			Addr:    getEnv("REDIS_ADDR", "localhost:6379"),
			Stream:  getEnv("REDIS_STREAM", "bestsellers:categories"),
		},
		API: APIConfig{
			Enabled: getEnvBool("API_ENABLED", false),
			Port:    getEnv("API_PORT", "8080"),
		},
		Output: OutputConfig{
			Dir:       getEnv("OUTPUT_DIR", "."),
			WriteJSON: getEnvBool("OUTPUT_JSON", true),
			WriteCSV:  getEnvBool("OUTPUT_CSV", true),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Scraper.BaseURL == "" {
		return fmt.Errorf("SCRAPER_BASE_URL must not be empty")
	}
	if c.Extraction.MaxItemsPerCategory <= 0 {
		return fmt.Errorf("EXTRACTION_MAX_ITEMS must be positive, got %d", c.Extraction.MaxItemsPerCategory)
	}
	if c.Scraper.AdaptiveMinDelay > c.Scraper.AdaptiveMaxDelay {
		return fmt.Errorf("SCRAPER_ADAPTIVE_MIN_DELAY (%s) exceeds SCRAPER_ADAPTIVE_MAX_DELAY (%s)",
			c.Scraper.AdaptiveMinDelay, c.Scraper.AdaptiveMaxDelay)
	}
	if c.Database.Enabled && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required when DB_ENABLED is true")
	}
	return nil
}

// DSN builds the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
