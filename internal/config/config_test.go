package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		BaseURL:      "https://n8n.example.com",
		APIKey:       "secret",
		Timeout:      30 * time.Second,
		RetryTimeout: time.Minute,
		LogFormat:    "text",
	}
}

func TestNew(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("base_url", "https://n8n.example.com/")
	viper.Set("api_key", "secret")
	viper.Set("timeout", "10s")
	viper.Set("retry_timeout", "2m")
	viper.Set("debug", true)
	viper.Set("log_format", "json")

	cfg := New()
	assert.Equal(t, "https://n8n.example.com", cfg.BaseURL)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 2*time.Minute, cfg.RetryTimeout)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "json", cfg.LogFormat)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing base url", func(c *Config) { c.BaseURL = "" }, "base URL is required"},
		{"bad scheme", func(c *Config) { c.BaseURL = "ftp://n8n" }, "scheme must be http or https"},
		{"missing host", func(c *Config) { c.BaseURL = "http://" }, "missing host"},
		{"missing api key", func(c *Config) { c.APIKey = "" }, "API key is required"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "must not be negative"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "invalid log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateLoggingOnly(t *testing.T) {
	cfg := &Config{LogFormat: "text"}
	assert.NoError(t, cfg.ValidateLogging())
	assert.Error(t, cfg.Validate())
}

func TestExecutionURL(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "https://n8n.example.com/api/v1/executions/4821?includeData=true", cfg.ExecutionURL("4821"))
	assert.Equal(t, "https://n8n.example.com/api/v1/executions/a%2Fb?includeData=true", cfg.ExecutionURL("a/b"))
}
