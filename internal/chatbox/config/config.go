package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultEndpointURL    = "http://localhost:8080/answer"
	DefaultRequestTimeout = "30s"
)

// Config holds the configuration for the chat client
type Config struct {
	EndpointURL    string `toml:"endpoint_url" mapstructure:"endpoint_url"`
	RequestTimeout string `toml:"request_timeout" mapstructure:"request_timeout"` // Go duration, e.g. "30s"
	Markdown       bool   `toml:"markdown" mapstructure:"markdown"`               // Render bot replies as markdown in the TUI
	LogFile        string `toml:"log_file" mapstructure:"log_file"`               // TUI log destination (empty = discard)
}

// GetEndpointURL returns the answering endpoint URL
func (c *Config) GetEndpointURL() string {
	return c.EndpointURL
}

// GetRequestTimeout returns the parsed request timeout.
// Invalid or empty values yield 0 so the transport falls back to its default.
func (c *Config) GetRequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0
	}
	return d
}

// Validate checks the values that cannot be defaulted silently
func (c *Config) Validate() error {
	if _, err := ParseEndpointURL(c.EndpointURL); err != nil {
		return err
	}
	if c.RequestTimeout != "" {
		d, err := time.ParseDuration(c.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request_timeout %q: %w", c.RequestTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("request_timeout must be positive (got %s)", c.RequestTimeout)
		}
	}
	return nil
}

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig() *Config {
	return &Config{
		EndpointURL:    DefaultEndpointURL,
		RequestTimeout: DefaultRequestTimeout,
		Markdown:       true,
		LogFile:        "",
	}
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	endpoint, err := expandEnvVar(config.EndpointURL)
	if err != nil {
		return nil, err
	}
	config.EndpointURL = endpoint

	if config.LogFile != "" {
		logFile, err := expandEnvVar(config.LogFile)
		if err != nil {
			return nil, err
		}
		absPath, err := ResolvePath(logFile)
		if err != nil {
			return nil, fmt.Errorf("error resolving log file path '%s': %w", logFile, err)
		}
		config.LogFile = absPath
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
