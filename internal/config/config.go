package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Valid configuration values
var validLogFormats = map[string]bool{
	"text": true, "json": true,
}

type Config struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	RetryTimeout time.Duration
	Debug        bool
	LogFormat    string
}

func New() *Config {
	return &Config{
		BaseURL:      strings.TrimRight(viper.GetString("base_url"), "/"),
		APIKey:       viper.GetString("api_key"),
		Timeout:      viper.GetDuration("timeout"),
		RetryTimeout: viper.GetDuration("retry_timeout"),
		Debug:        viper.GetBool("debug"),
		LogFormat:    viper.GetString("log_format"),
	}
}

// Validate checks everything needed to talk to the n8n API.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required (set N8N_BASE_URL or --base-url)")
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %s: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL: %s (scheme must be http or https)", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base URL: %s (missing host)", c.BaseURL)
	}

	if c.APIKey == "" {
		return fmt.Errorf("API key is required (set N8N_API_KEY or --api-key)")
	}

	if c.Timeout < 0 || c.RetryTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}

	return c.ValidateLogging()
}

// ValidateLogging checks only the logging settings. File-based analysis
// needs nothing else.
func (c *Config) ValidateLogging() error {
	if !validLogFormats[c.LogFormat] {
		return fmt.Errorf("invalid log format: %s (valid: text, json)", c.LogFormat)
	}
	return nil
}

// ExecutionURL returns the REST endpoint of one execution including its
// run data.
func (c *Config) ExecutionURL(id string) string {
	return fmt.Sprintf("%s/api/v1/executions/%s?includeData=true", c.BaseURL, url.PathEscape(id))
}
