// Package config loads application configuration from a YAML file with
// environment overrides, and watches the file for channel list changes.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/entity"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Slack    SlackConfig    `yaml:"slack"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Summary  SummaryConfig  `yaml:"summary"`
	Workers  WorkersConfig  `yaml:"workers"`
	Advanced AdvancedConfig `yaml:"advanced"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SlackConfig holds Slack integration settings.
type SlackConfig struct {
	BotToken      string   `yaml:"bot_token"`
	SigningSecret string   `yaml:"signing_secret"`
	ChannelIDs    []string `yaml:"channel_ids"`
	ReactionEmoji string   `yaml:"reaction_emoji"`
}

// GeminiConfig holds generation API settings.
type GeminiConfig struct {
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"`
}

// SummaryConfig holds summarization behavior settings.
type SummaryConfig struct {
	DetailLevel string `yaml:"detail_level"`
	MaxPages    int    `yaml:"max_pages"`
	EnableCache *bool  `yaml:"enable_cache"`
	CacheDir    string `yaml:"cache_dir"`
}

// WorkersConfig holds background worker pool settings.
type WorkersConfig struct {
	Count     int `yaml:"count"`
	QueueSize int `yaml:"queue_size"`
}

// AdvancedConfig holds timeout and retry tuning.
type AdvancedConfig struct {
	Timeout    int `yaml:"timeout"`     // seconds, per external call
	MaxRetries int `yaml:"max_retries"` // attempts per retryable call
	RetryDelay int `yaml:"retry_delay"` // seconds, base backoff
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads configuration from file and environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	// Load from file if exists
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err == nil {
			// Expand environment variables in YAML
			expandedData := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	cfg.overrideFromEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// overrideFromEnv overrides config values from environment variables.
func (c *Config) overrideFromEnv() {
	// Server
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}

	// Slack
	if v := os.Getenv("SLACK_BOT_TOKEN"); v != "" {
		c.Slack.BotToken = v
	}
	if v := os.Getenv("SLACK_SIGNING_SECRET"); v != "" {
		c.Slack.SigningSecret = v
	}
	if v := os.Getenv("SLACK_CHANNEL_IDS"); v != "" {
		c.Slack.ChannelIDs = splitAndTrim(v)
	}

	// Gemini
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.Gemini.Model = v
	}

	// Summary
	if v := os.Getenv("SUMMARY_DETAIL_LEVEL"); v != "" {
		c.Summary.DetailLevel = v
	}

	// Logging
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

// applyDefaults sets default values for unset config options.
func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}

	// Slack defaults
	if c.Slack.ReactionEmoji == "" {
		c.Slack.ReactionEmoji = "party_blob"
	}

	// Gemini defaults
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-1.5-flash"
	}

	// Summary defaults
	if c.Summary.DetailLevel == "" {
		c.Summary.DetailLevel = string(entity.DetailNormal)
	}
	if c.Summary.MaxPages == 0 {
		c.Summary.MaxPages = 50
	}
	if c.Summary.CacheDir == "" {
		c.Summary.CacheDir = "cache"
	}

	// Worker defaults
	if c.Workers.Count == 0 {
		c.Workers.Count = 4
	}
	if c.Workers.QueueSize == 0 {
		c.Workers.QueueSize = 64
	}

	// Advanced defaults
	if c.Advanced.Timeout == 0 {
		c.Advanced.Timeout = 60
	}
	if c.Advanced.MaxRetries == 0 {
		c.Advanced.MaxRetries = 3
	}
	if c.Advanced.RetryDelay == 0 {
		c.Advanced.RetryDelay = 2
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// validate checks that required configuration is present.
func (c *Config) validate() error {
	if c.Slack.BotToken == "" {
		return fmt.Errorf("slack.bot_token is required")
	}
	if !strings.HasPrefix(c.Slack.BotToken, "xoxb-") {
		return fmt.Errorf("slack.bot_token must be a bot token (xoxb- prefix)")
	}
	if c.Slack.SigningSecret == "" {
		return fmt.Errorf("slack.signing_secret is required")
	}
	if len(c.Slack.ChannelIDs) == 0 {
		return fmt.Errorf("slack.channel_ids is required")
	}
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini.api_key is required")
	}

	if !entity.DetailLevel(c.Summary.DetailLevel).Valid() {
		return fmt.Errorf("invalid summary.detail_level: %s (must be short, normal, or detailed)", c.Summary.DetailLevel)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Workers.Count < 1 {
		return fmt.Errorf("workers.count must be at least 1")
	}
	if c.Workers.QueueSize < 1 {
		return fmt.Errorf("workers.queue_size must be at least 1")
	}
	if c.Advanced.MaxRetries < 1 {
		return fmt.Errorf("advanced.max_retries must be at least 1")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Logging.Format)
	}

	return nil
}

// DetailLevel returns the configured detail level as an entity value.
func (c *Config) DetailLevel() entity.DetailLevel {
	return entity.DetailLevel(c.Summary.DetailLevel)
}

// CacheEnabled reports whether the file-backed summary cache is on.
// Unset means enabled.
func (c *Config) CacheEnabled() bool {
	return c.Summary.EnableCache == nil || *c.Summary.EnableCache
}

// CallTimeout returns the per-call timeout for external APIs.
func (c *Config) CallTimeout() time.Duration {
	return time.Duration(c.Advanced.Timeout) * time.Second
}

// RetryDelay returns the base backoff between retry attempts.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Advanced.RetryDelay) * time.Second
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
