package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the entire application configuration
type Config struct {
	Output    OutputConfig    `mapstructure:"output"`
	Downloads DownloadsConfig `mapstructure:"downloads"`
	Shutdown  ShutdownConfig  `mapstructure:"shutdown"`
	Journal   JournalConfig   `mapstructure:"journal"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// OutputConfig contains output filesystem settings
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// DownloadsConfig contains download execution settings
type DownloadsConfig struct {
	Concurrent       int    `mapstructure:"concurrent"`
	ChunkSizeKB      int    `mapstructure:"chunk_size_kb"`
	HTTPTimeout      string `mapstructure:"http_timeout"`
	ProgressInterval string `mapstructure:"progress_interval"`
	UserAgent        string `mapstructure:"user_agent"`
}

// ShutdownConfig contains signal handling settings
type ShutdownConfig struct {
	GracePeriod string `mapstructure:"grace_period"`
}

// JournalConfig contains journal database settings
type JournalConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from the specified file path. An empty path
// loads the built-in defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("output.dir", "./downloads")
	v.SetDefault("downloads.concurrent", 0)
	v.SetDefault("downloads.chunk_size_kb", 32)
	v.SetDefault("downloads.http_timeout", "0s")
	v.SetDefault("downloads.progress_interval", "1s")
	v.SetDefault("downloads.user_agent", "bulkfetch")
	v.SetDefault("shutdown.grace_period", "30s")
	v.SetDefault("journal.path", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}

	if c.Downloads.Concurrent < 0 {
		return fmt.Errorf("downloads.concurrent must not be negative")
	}
	if c.Downloads.ChunkSizeKB <= 0 {
		return fmt.Errorf("downloads.chunk_size_kb must be positive")
	}

	// Validate durations
	if _, err := time.ParseDuration(c.Downloads.HTTPTimeout); err != nil {
		return fmt.Errorf("invalid downloads.http_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Downloads.ProgressInterval); err != nil {
		return fmt.Errorf("invalid downloads.progress_interval: %w", err)
	}
	if _, err := time.ParseDuration(c.Shutdown.GracePeriod); err != nil {
		return fmt.Errorf("invalid shutdown.grace_period: %w", err)
	}

	// Validate logging config
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
		// Valid formats
	default:
		return fmt.Errorf("invalid logging.format: %s", c.Logging.Format)
	}

	return nil
}

// GetChunkSize returns the copy chunk size in bytes
func (c *DownloadsConfig) GetChunkSize() int {
	if c.ChunkSizeKB <= 0 {
		return 32 * 1024 // 32KiB default
	}
	return c.ChunkSizeKB * 1024
}

// GetHTTPTimeout returns the whole-request timeout as time.Duration.
// Zero means no overall timeout.
func (c *DownloadsConfig) GetHTTPTimeout() time.Duration {
	d, _ := time.ParseDuration(c.HTTPTimeout)
	return d
}

// GetProgressInterval returns the progress log interval as time.Duration
func (c *DownloadsConfig) GetProgressInterval() time.Duration {
	d, _ := time.ParseDuration(c.ProgressInterval)
	if d == 0 {
		return time.Second
	}
	return d
}

// GetGracePeriod returns the shutdown grace period as time.Duration.
// Zero means wait indefinitely after the first signal.
func (c *ShutdownConfig) GetGracePeriod() time.Duration {
	d, _ := time.ParseDuration(c.GracePeriod)
	return d
}
