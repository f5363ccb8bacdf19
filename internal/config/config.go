package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
)

// Output formats for fetched HTML pages
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// DefaultUserAgent mimics a desktop browser so mirrors aren't rejected outright
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config holds all runtime configuration parameters
type Config struct {
	SeedURL              string `json:"seed_url"`
	OutputDir            string `json:"output_dir"`
	Format               string `json:"format"`
	MarkdownTxtExtension bool   `json:"markdown_txt_extension"`
	UserAgent            string `json:"user_agent"`
	RequestTimeoutMs     int    `json:"request_timeout_ms"`
	MaxDepth             int    `json:"max_depth"`
	MaxPages             int    `json:"max_pages"`
	RespectRobots        bool   `json:"respect_robots"`
	DBPath               string `json:"db_path"`
	MetricsPath          string `json:"metrics_path"`
}

// LoadConfig reads and validates configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	var cfg Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Apply defaults for missing values
	applyDefaults(&cfg)

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for unspecified fields
func applyDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
	if cfg.Format == "" {
		cfg.Format = FormatHTML
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.RequestTimeoutMs == 0 {
		cfg.RequestTimeoutMs = 10000
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "mirror.db"
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "metrics.json"
	}
}

// validate checks that required fields are present and values are sensible
func validate(cfg *Config) error {
	if cfg.SeedURL == "" {
		return fmt.Errorf("seed_url is required")
	}
	parsed, err := url.Parse(cfg.SeedURL)
	if err != nil {
		return fmt.Errorf("seed_url is not a valid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("seed_url must start with http:// or https://")
	}
	if parsed.Host == "" {
		return fmt.Errorf("seed_url must include a host")
	}
	if cfg.Format != FormatHTML && cfg.Format != FormatMarkdown {
		return fmt.Errorf("format must be %q or %q", FormatHTML, FormatMarkdown)
	}
	if cfg.RequestTimeoutMs < 1000 {
		return fmt.Errorf("request_timeout_ms must be >= 1000")
	}
	if cfg.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be >= 0")
	}
	if cfg.MaxPages < 0 {
		return fmt.Errorf("max_pages must be >= 0")
	}
	return nil
}
