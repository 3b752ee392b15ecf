// Package configs defines the application configuration, loaded
// through viper from file, environment, and flags.
package configs

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose  bool   `mapstructure:"verbose"`
	LogLevel string `mapstructure:"log_level"`
	DataDir  string `mapstructure:"data_dir"`

	// HTTP server settings
	Server ServerConfig `mapstructure:"server"`

	// Poll pipeline settings
	Poll PollConfig `mapstructure:"poll"`

	// Artwork and logo lookup settings
	Artwork ArtworkConfig `mapstructure:"artwork"`

	// Deep scan (audio capture + transcription) settings
	DeepScan DeepScanConfig `mapstructure:"deepscan"`

	// Station table settings
	Stations StationsConfig `mapstructure:"stations"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// PollConfig contains now-playing pipeline settings
type PollConfig struct {
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	PollTimeout     time.Duration `mapstructure:"poll_timeout"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	RefreshEnabled  bool          `mapstructure:"refresh_enabled"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	RefreshWorkers  int           `mapstructure:"refresh_workers"`
}

// ArtworkConfig contains artwork and logo lookup settings
type ArtworkConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	LogoTimeout time.Duration `mapstructure:"logo_timeout"`
}

// DeepScanConfig contains settings for the audio transcription tier.
// An empty api_key disables the tier.
type DeepScanConfig struct {
	Endpoint     string        `mapstructure:"endpoint"`
	APIKey       string        `mapstructure:"api_key"`
	STTModel     string        `mapstructure:"stt_model"`
	LLMModel     string        `mapstructure:"llm_model"`
	SampleWindow time.Duration `mapstructure:"sample_window"`
}

// StationsConfig points at the station table file and names the
// default station substituted for unknown ids
type StationsConfig struct {
	File    string `mapstructure:"file"`
	Default string `mapstructure:"default"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	setDefaults(viper.GetViper())

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration for impossible values
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if c.Poll.FetchTimeout <= 0 {
		return fmt.Errorf("poll fetch timeout must be positive")
	}
	if c.Poll.PollTimeout < c.Poll.FetchTimeout {
		return fmt.Errorf("poll timeout must cover the fetch timeout")
	}
	if c.Poll.CacheTTL <= 0 {
		return fmt.Errorf("cache ttl must be positive")
	}
	if c.Poll.RefreshEnabled && c.Poll.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive when refresh is enabled")
	}
	if c.Stations.File == "" {
		return fmt.Errorf("stations file is required")
	}
	return nil
}
