package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultEnvFile is the dotenv file read at startup
	DefaultEnvFile = ".env.local"

	// DefaultBaseURL is the YouTube Data API v3 root every endpoint is appended to
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3/"

	// DefaultTimeout bounds every outbound request
	DefaultTimeout = 20 * time.Second
)

var (
	ErrMissingAPIKey = errors.New("YouTube API key is required")
)

// Config holds the application configuration
type Config struct {
	YouTubeAPIKey string
	BaseURL       string
	Timeout       time.Duration
}

// Load loads the configuration from the given dotenv file, falling back to
// the process environment for keys the file does not define.
func Load(envFile string) (*Config, error) {
	values, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
		log.Warnf("Warning: %s file not found", envFile)
		values = map[string]string{}
	}

	lookup := func(key string) string {
		if v, ok := values[key]; ok && v != "" {
			return v
		}
		return os.Getenv(key)
	}

	cfg := &Config{
		YouTubeAPIKey: lookup("YT_API"),
		BaseURL:       lookup("YT_API_BASE_URL"),
		Timeout:       DefaultTimeout,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if raw := lookup("YT_API_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid YT_API_TIMEOUT %q: %w", raw, err)
		}
		cfg.Timeout = timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.YouTubeAPIKey == "" {
		return fmt.Errorf("%w: YT_API is not set", ErrMissingAPIKey)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
