package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth for the HTTP API
	APIKey string

	// Anthropic batch retrieval
	AnthropicAPIKey   string
	AnthropicBaseURL  string
	BatchPollInterval time.Duration

	// Outline driver
	OutlinePath     string
	ChaptersPath    string
	OutlineEncoding string

	// Upload limits
	MaxUploadBytes int64

	// Tools store
	ProjectsDir     string
	ToolsConfigPath string
	ToolsDBPath     string

	// Rolling window for latency stats
	StatsWindow time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// PDF
	PDFFallbackPdftotext bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("WRITERKIT_API_KEY"),

		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicBaseURL:  envOr("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
		BatchPollInterval: envDuration("BATCH_POLL_INTERVAL", 30*time.Second),

		OutlinePath:     envOr("OUTLINE_PATH", "outline.txt"),
		ChaptersPath:    envOr("CHAPTERS_PATH", "chapters.txt"),
		OutlineEncoding: envOr("OUTLINE_ENCODING", "utf-8"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		ProjectsDir:     expandHome(envOr("PROJECTS_DIR", "~/writing")),
		ToolsConfigPath: envOr("TOOLS_CONFIG_PATH", "tools_config.json"),
		ToolsDBPath:     envOr("TOOLS_DB_PATH", "writers_toolkit.db"),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogFormat: envOr("LOG_FORMAT", "text"),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.BatchPollInterval <= 0 {
		cfg.BatchPollInterval = 30 * time.Second
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}
	cfg.AnthropicBaseURL = strings.TrimRight(cfg.AnthropicBaseURL, "/")

	return cfg
}

// ValidateServer checks the settings the HTTP API needs.
func (c Config) ValidateServer() error {
	if c.APIKey == "" {
		return fmt.Errorf("WRITERKIT_API_KEY is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	return nil
}

// ValidateBatch checks the settings batch retrieval needs.
func (c Config) ValidateBatch() error {
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
