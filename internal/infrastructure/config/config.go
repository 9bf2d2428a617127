// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	origins := cfg.Server.AllowedOrigins
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Matching      MatchingConfig      `yaml:"matching"`
	Accounting    AccountingConfig    `yaml:"accounting"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig holds database and file storage configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
	FilesDir     string `yaml:"files_dir"`
}

// MatchingConfig holds reconciliation scoring settings
type MatchingConfig struct {
	AmountTolerance float64 `yaml:"amount_tolerance"`
	AcceptThreshold float64 `yaml:"accept_threshold"`
	AmountWeight    float64 `yaml:"amount_weight"`
	VendorWeight    float64 `yaml:"vendor_weight"`
	DateWeight      float64 `yaml:"date_weight"`
}

// AccountingConfig holds books provider connection settings
type AccountingConfig struct {
	Provider        string `yaml:"provider"`
	BaseURL         string `yaml:"base_url"`
	Token           string `yaml:"token"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${BOOKS_TOKEN})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvInt("SERVER_PORT", 8080),
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("BACKOFFICE_DB_PATH", "backoffice.db"),
			FilesDir:     getEnv("BACKOFFICE_FILES_DIR", "uploads"),
		},
		Matching: MatchingConfig{
			AmountTolerance: getEnvFloat("MATCH_AMOUNT_TOLERANCE", 1.00),
			AcceptThreshold: getEnvFloat("MATCH_ACCEPT_THRESHOLD", 70),
			AmountWeight:    getEnvFloat("MATCH_AMOUNT_WEIGHT", 0.6),
			VendorWeight:    getEnvFloat("MATCH_VENDOR_WEIGHT", 0.3),
			DateWeight:      getEnvFloat("MATCH_DATE_WEIGHT", 0.1),
		},
		Accounting: AccountingConfig{
			Provider:        getEnv("BOOKS_PROVIDER", ""),
			BaseURL:         os.Getenv("BOOKS_BASE_URL"),
			Token:           os.Getenv("BOOKS_TOKEN"),
			CacheTTLSeconds: getEnvInt("BOOKS_CACHE_TTL_SECONDS", 300),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from the specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// applyDefaults fills zero values left by a partial YAML file.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "backoffice.db"
	}
	if c.Storage.FilesDir == "" {
		c.Storage.FilesDir = "uploads"
	}
	if c.Matching.AmountTolerance == 0 {
		c.Matching.AmountTolerance = 1.00
	}
	if c.Matching.AcceptThreshold == 0 {
		c.Matching.AcceptThreshold = 70
	}
	if c.Matching.AmountWeight == 0 && c.Matching.VendorWeight == 0 && c.Matching.DateWeight == 0 {
		c.Matching.AmountWeight = 0.6
		c.Matching.VendorWeight = 0.3
		c.Matching.DateWeight = 0.1
	}
	if c.Accounting.CacheTTLSeconds == 0 {
		c.Accounting.CacheTTLSeconds = 300
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "text"
	}
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

// getEnvFloat retrieves a float environment variable with a fallback default
func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		var result float64
		if _, err := fmt.Sscanf(val, "%g", &result); err == nil {
			return result
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
