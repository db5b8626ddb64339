// Package config loads the agent configuration from YAML and the process
// environment.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full agent configuration.
type Config struct {
	Model   ModelConfig   `yaml:"model"`
	Agent   AgentConfig   `yaml:"agent"`
	Search  SearchConfig  `yaml:"search"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
	// ToolsFile points at the optional tool enablement file.
	ToolsFile string `yaml:"tools_file"`
}

type ModelConfig struct {
	BaseURL          string  `yaml:"base_url"`
	APIKey           string  `yaml:"api_key"`
	Name             string  `yaml:"name"`
	TimeoutSeconds   int     `yaml:"timeout_seconds"`
	Temperature      float32 `yaml:"temperature"`
	TopP             float32 `yaml:"top_p"`
	MaxTokens        int     `yaml:"max_tokens"`
	PresencePenalty  float32 `yaml:"presence_penalty"`
	FrequencyPenalty float32 `yaml:"frequency_penalty"`
}

type AgentConfig struct {
	Prompt   string `yaml:"prompt"`
	Stream   bool   `yaml:"stream"`
	MaxSteps int    `yaml:"max_steps"`
}

type SearchConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads and validates a YAML config. A missing api_key falls back to
// the OPENAI_API_KEY environment variable so keys stay out of files.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Model.APIKey == "" {
		cfg.Model.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields the agent cannot run without.
func (c *Config) Validate() error {
	if c.Model.Name == "" {
		return fmt.Errorf("model.name is required")
	}
	if c.Model.APIKey == "" {
		return fmt.Errorf("model.api_key is required (or set OPENAI_API_KEY)")
	}
	return nil
}

// Timeout converts the configured request timeout.
func (m ModelConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}
