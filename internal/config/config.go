// Package config loads pipeline settings from the process environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Slack settings
	SlackWebhookURL string

	// Summarization settings
	GeminiAPIKey       string
	GeminiModel        string
	OpenAIAPIKey       string // optional fallback provider
	MaxSummaryRequests int    // maximum summarization requests per run (0 = unlimited)
	SummaryInputLimit  int    // max runes of cleaned text sent to the model
	SummaryLanguage    string // target language for the digest summaries

	// Pacing settings
	SummaryPace     time.Duration // minimum gap between summarization calls
	SummaryBurst    int           // calls allowed before the long cooldown kicks in
	SummaryCooldown time.Duration // cooldown after each burst
	PostPace        time.Duration // gap between consecutive webhook posts

	// RSS settings
	FeedsConfigPath string
	MaxArticles     int
	NewsWindow      time.Duration

	// Publishing settings
	ChunkSize int // message units per webhook post

	// App settings
	Debug          bool
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		FeedsConfigPath:    "configs/feeds.yaml",
		GeminiModel:        "gemini-1.5-flash",
		MaxArticles:        10,
		NewsWindow:         36 * time.Hour,
		MaxSummaryRequests: 0,
		SummaryInputLimit:  1500,
		SummaryLanguage:    "English",
		SummaryPace:        1 * time.Second,
		SummaryBurst:       5,
		SummaryCooldown:    60 * time.Second,
		PostPace:           1 * time.Second,
		ChunkSize:          10,
		RequestTimeout:     30 * time.Second,
		RetryAttempts:      3,
		RetryDelay:         2 * time.Second,
	}

	// Load from environment
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.SlackWebhookURL = os.Getenv("SLACK_WEBHOOK_URL")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")

	if path := os.Getenv("FEEDS_CONFIG_PATH"); path != "" {
		cfg.FeedsConfigPath = path
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.GeminiModel = model
	}
	if lang := os.Getenv("SUMMARY_LANGUAGE"); lang != "" {
		cfg.SummaryLanguage = lang
	}

	if v := getEnvIntOrDefault("MAX_ARTICLES", 0); v > 0 {
		cfg.MaxArticles = v
	}
	if v := getEnvIntOrDefault("NEWS_WINDOW_HOURS", 0); v > 0 {
		cfg.NewsWindow = time.Duration(v) * time.Hour
	}
	if v := os.Getenv("MAX_SUMMARY_REQUESTS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 {
			cfg.MaxSummaryRequests = val
		}
	}
	if v := getEnvIntOrDefault("SUMMARY_INPUT_LIMIT", 0); v > 0 {
		cfg.SummaryInputLimit = v
	}
	if v := getEnvIntOrDefault("SUMMARY_PACE_SECONDS", 0); v > 0 {
		cfg.SummaryPace = time.Duration(v) * time.Second
	}
	if v := getEnvIntOrDefault("SUMMARY_BURST", 0); v > 0 {
		cfg.SummaryBurst = v
	}
	if v := getEnvIntOrDefault("SUMMARY_COOLDOWN_SECONDS", 0); v > 0 {
		cfg.SummaryCooldown = time.Duration(v) * time.Second
	}
	if v := getEnvIntOrDefault("POST_PACE_SECONDS", 0); v > 0 {
		cfg.PostPace = time.Duration(v) * time.Second
	}
	if v := getEnvIntOrDefault("CHUNK_SIZE", 0); v > 0 {
		cfg.ChunkSize = v
	}
	if v := getEnvIntOrDefault("REQUEST_TIMEOUT_SECONDS", 0); v > 0 {
		cfg.RequestTimeout = time.Duration(v) * time.Second
	}
	if v := getEnvIntOrDefault("RETRY_ATTEMPTS", 0); v > 0 {
		cfg.RetryAttempts = v
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.SlackWebhookURL == "" {
		return fmt.Errorf("SLACK_WEBHOOK_URL is required")
	}
	return nil
}
