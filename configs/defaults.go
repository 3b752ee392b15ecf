package configs

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets default configuration values for all components
func setDefaults(v *viper.Viper) {
	// Application defaults
	if !v.IsSet("log_level") {
		v.Set("log_level", "info")
	}
	if !v.IsSet("data_dir") {
		v.Set("data_dir", "./data")
	}

	// Server defaults
	if !v.IsSet("server.addr") {
		v.Set("server.addr", ":8080")
	}
	if !v.IsSet("server.read_timeout") {
		v.Set("server.read_timeout", 10*time.Second)
	}
	if !v.IsSet("server.write_timeout") {
		v.Set("server.write_timeout", 30*time.Second)
	}
	if !v.IsSet("server.shutdown_timeout") {
		v.Set("server.shutdown_timeout", 10*time.Second)
	}

	// Poll pipeline defaults
	if !v.IsSet("poll.fetch_timeout") {
		v.Set("poll.fetch_timeout", 2500*time.Millisecond)
	}
	if !v.IsSet("poll.poll_timeout") {
		v.Set("poll.poll_timeout", 3*time.Second)
	}
	if !v.IsSet("poll.cache_ttl") {
		v.Set("poll.cache_ttl", 30*time.Second)
	}
	if !v.IsSet("poll.refresh_enabled") {
		v.Set("poll.refresh_enabled", true)
	}
	if !v.IsSet("poll.refresh_interval") {
		v.Set("poll.refresh_interval", 45*time.Second)
	}
	if !v.IsSet("poll.refresh_workers") {
		v.Set("poll.refresh_workers", 4)
	}

	// Artwork defaults
	if !v.IsSet("artwork.timeout") {
		v.Set("artwork.timeout", 3*time.Second)
	}
	if !v.IsSet("artwork.logo_timeout") {
		v.Set("artwork.logo_timeout", 2*time.Second)
	}

	// Deep scan defaults; the tier stays disabled until an api key is set
	if !v.IsSet("deepscan.endpoint") {
		v.Set("deepscan.endpoint", "https://api.openai.com/v1")
	}
	if !v.IsSet("deepscan.stt_model") {
		v.Set("deepscan.stt_model", "whisper-1")
	}
	if !v.IsSet("deepscan.llm_model") {
		v.Set("deepscan.llm_model", "gpt-4o-mini")
	}
	if !v.IsSet("deepscan.sample_window") {
		v.Set("deepscan.sample_window", 10*time.Second)
	}

	// Station table defaults
	if !v.IsSet("stations.file") {
		v.Set("stations.file", "./configs/stations.yaml")
	}
}
