package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides
const EnvPrefix = "HACKFLOW"

// Config is the main configuration structure. Every leaf field can be
// overridden by HACKFLOW_<SECTION>_<FIELD>, e.g. HACKFLOW_SERVER_LISTEN_ADDR.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Site       SiteConfig       `yaml:"site"`
	Mailing    MailingConfig    `yaml:"mailing"`
	Moderation ModerationConfig `yaml:"moderation"`
	Worker     WorkerConfig     `yaml:"worker"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	ListenAddr      string        `yaml:"listen_addr" split_words:"true"`
	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" split_words:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true"` // Default: 10s
	MaxHeaderBytes  int           `yaml:"max_header_bytes" split_words:"true"`
}

// SiteConfig contains branding shown on the pages
type SiteConfig struct {
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url" split_words:"true"` // Prefix for hackathon registration links
}

// MailingConfig contains mail merge limits
type MailingConfig struct {
	MaxUploadBytes int64 `yaml:"max_upload_bytes" split_words:"true"` // Default: 1MB
}

// ModerationConfig contains live chat settings
type ModerationConfig struct {
	SlowModeInterval time.Duration `yaml:"slow_mode_interval" split_words:"true"` // 0 disables slow mode
	SlowModeBurst    int           `yaml:"slow_mode_burst" split_words:"true"`
	MaxMessageLength int           `yaml:"max_message_length" split_words:"true"`
	PingInterval     time.Duration `yaml:"ping_interval" split_words:"true"` // WebSocket keepalive
}

// WorkerConfig controls the background campaign dispatcher
type WorkerConfig struct {
	BatchSize    int           `yaml:"batch_size" split_words:"true"`    // Emails per campaign per tick
	PollInterval time.Duration `yaml:"poll_interval" split_words:"true"` // Default: 5s
}

// MetricsConfig contains Prometheus metrics settings
type MetricsConfig struct {
	Enabled    bool     `yaml:"enabled"`
	ListenAddr string   `yaml:"listen_addr" split_words:"true"` // Default: :9090
	Path       string   `yaml:"path"`                           // Default: /metrics
	AllowedIPs []string `yaml:"allowed_ips" split_words:"true"` // IP addresses/CIDRs allowed to scrape
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// Load reads the YAML file at path, applies a .env file from the working
// directory if one exists, then HACKFLOW_* environment overrides. An empty
// path skips the file and starts from defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// loadDotEnv loads name into the process environment. Variables that are
// already set win; a missing file is not an error.
func loadDotEnv(name string) error {
	err := godotenv.Load(name)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", name, err)
}

// setDefaults sets default values for configuration
func (c *Config) setDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Server.MaxHeaderBytes == 0 {
		c.Server.MaxHeaderBytes = 1 << 20 // 1 MB
	}

	if c.Site.Name == "" {
		c.Site.Name = "HackFlow"
	}
	if c.Site.BaseURL == "" {
		c.Site.BaseURL = "https://hackflow.io"
	}

	if c.Mailing.MaxUploadBytes == 0 {
		c.Mailing.MaxUploadBytes = 1 << 20
	}

	if c.Moderation.SlowModeBurst == 0 {
		c.Moderation.SlowModeBurst = 3
	}
	if c.Moderation.MaxMessageLength == 0 {
		c.Moderation.MaxMessageLength = 500
	}
	if c.Moderation.PingInterval == 0 {
		c.Moderation.PingInterval = 30 * time.Second
	}

	if c.Worker.BatchSize == 0 {
		c.Worker.BatchSize = 10
	}
	if c.Worker.PollInterval == 0 {
		c.Worker.PollInterval = 5 * time.Second
	}

	if c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = ":9090"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}

	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid site.base_url: %q (must be an absolute URL)", c.Site.BaseURL)
	}

	if c.Mailing.MaxUploadBytes < 0 {
		return fmt.Errorf("mailing.max_upload_bytes must not be negative")
	}

	if c.Moderation.SlowModeInterval < 0 {
		return fmt.Errorf("moderation.slow_mode_interval must not be negative")
	}
	if c.Moderation.SlowModeBurst < 1 {
		return fmt.Errorf("moderation.slow_mode_burst must be at least 1")
	}
	if c.Moderation.MaxMessageLength < 1 {
		return fmt.Errorf("moderation.max_message_length must be at least 1")
	}

	if c.Worker.BatchSize < 1 {
		return fmt.Errorf("worker.batch_size must be at least 1")
	}
	if c.Worker.PollInterval < 0 {
		return fmt.Errorf("worker.poll_interval must not be negative")
	}

	if c.Metrics.Enabled {
		if c.Metrics.ListenAddr == c.Server.ListenAddr {
			return fmt.Errorf("metrics.listen_addr must differ from server.listen_addr")
		}
		if len(c.Metrics.Path) == 0 || c.Metrics.Path[0] != '/' {
			return fmt.Errorf("invalid metrics.path: %q (must start with /)", c.Metrics.Path)
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging.level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid logging.format: %s (must be json or text)", c.Logging.Format)
	}

	return nil
}

// SlowModeEnabled reports whether chat posts are rate limited per user
func (c *Config) SlowModeEnabled() bool {
	return c.Moderation.SlowModeInterval > 0
}
