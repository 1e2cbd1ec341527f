// Package config loads bootwatch configuration from a YAML file, merging
// file values over defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// GatewayConfig holds remote analysis settings.
type GatewayConfig struct {
	// Endpoint is the messages URL of the reasoning service.
	Endpoint string `yaml:"endpoint"`

	// Model names the model to request.
	Model string `yaml:"model"`

	// APIKeyEnv names the environment variable holding the credential.
	// An unset or empty variable leaves the gateway unconfigured.
	APIKeyEnv string `yaml:"api_key_env"`

	// RateCeiling is the maximum analysis calls per rolling minute.
	RateCeiling int `yaml:"rate_ceiling"`

	// Timeout bounds one analysis call.
	Timeout time.Duration `yaml:"timeout"`
}

// HistoryConfig bounds the per-stream retained history.
type HistoryConfig struct {
	// Lines is the raw-line capacity.
	Lines int `yaml:"lines"`

	// Errors is the error-record and outcome capacity.
	Errors int `yaml:"errors"`
}

// SourceConfig controls source context resolution.
type SourceConfig struct {
	// Roots are the workspace directories searched for source files.
	Roots []string `yaml:"roots"`

	// WindowRadius is the number of lines kept above and below a frame's
	// target line.
	WindowRadius int `yaml:"window_radius"`
}

// Config represents bootwatch configuration options.
type Config struct {
	// LogLevel sets diagnostic verbosity (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// RulesFile is an optional YAML file of extra pattern rules.
	RulesFile string `yaml:"rules_file"`

	History HistoryConfig `yaml:"history"`
	Gateway GatewayConfig `yaml:"gateway"`
	Source  SourceConfig  `yaml:"source"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		History: HistoryConfig{
			Lines:  1000,
			Errors: 100,
		},
		Gateway: GatewayConfig{
			Endpoint:    "https://api.anthropic.com/v1/messages",
			Model:       "claude-sonnet-4-5",
			APIKeyEnv:   "ANTHROPIC_API_KEY",
			RateCeiling: 5,
			Timeout:     60 * time.Second,
		},
		Source: SourceConfig{
			Roots:        []string{"."},
			WindowRadius: 10,
		},
	}
}

// Load reads configuration from path. A missing file returns defaults
// without error; a malformed file returns an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations arrive as strings in YAML, so parse through a shadow type.
	type yamlGateway struct {
		Endpoint    string `yaml:"endpoint"`
		Model       string `yaml:"model"`
		APIKeyEnv   string `yaml:"api_key_env"`
		RateCeiling int    `yaml:"rate_ceiling"`
		Timeout     string `yaml:"timeout"`
	}
	type yamlConfig struct {
		LogLevel  string        `yaml:"log_level"`
		RulesFile string        `yaml:"rules_file"`
		History   HistoryConfig `yaml:"history"`
		Gateway   yamlGateway   `yaml:"gateway"`
		Source    SourceConfig  `yaml:"source"`
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yc.LogLevel != "" {
		cfg.LogLevel = yc.LogLevel
	}
	if yc.RulesFile != "" {
		cfg.RulesFile = yc.RulesFile
	}
	if yc.History.Lines > 0 {
		cfg.History.Lines = yc.History.Lines
	}
	if yc.History.Errors > 0 {
		cfg.History.Errors = yc.History.Errors
	}
	if yc.Gateway.Endpoint != "" {
		cfg.Gateway.Endpoint = yc.Gateway.Endpoint
	}
	if yc.Gateway.Model != "" {
		cfg.Gateway.Model = yc.Gateway.Model
	}
	if yc.Gateway.APIKeyEnv != "" {
		cfg.Gateway.APIKeyEnv = yc.Gateway.APIKeyEnv
	}
	if yc.Gateway.RateCeiling > 0 {
		cfg.Gateway.RateCeiling = yc.Gateway.RateCeiling
	}
	if yc.Gateway.Timeout != "" {
		timeout, err := time.ParseDuration(yc.Gateway.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid gateway timeout %q: %w", yc.Gateway.Timeout, err)
		}
		cfg.Gateway.Timeout = timeout
	}
	if len(yc.Source.Roots) > 0 {
		cfg.Source.Roots = yc.Source.Roots
	}
	if yc.Source.WindowRadius > 0 {
		cfg.Source.WindowRadius = yc.Source.WindowRadius
	}

	return cfg, nil
}

// APIKey resolves the gateway credential from the configured environment
// variable. Empty when unset.
func (g GatewayConfig) APIKey() string {
	if g.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(g.APIKeyEnv)
}
