package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the pet configuration
type Config struct {
	Timeout   int               `json:"timeout,omitempty" yaml:"timeout,omitempty"` // milliseconds
	UserAgent string            `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"` // Default headers for all requests
	Insecure  *bool             `json:"insecure,omitempty" yaml:"insecure,omitempty"`
	Verbose   *bool             `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	NoColor   *bool             `json:"noColor,omitempty" yaml:"noColor,omitempty"`
	Output    string            `json:"output,omitempty" yaml:"output,omitempty"`   // console or json
	History   string            `json:"history,omitempty" yaml:"history,omitempty"` // sqlite connection string
}

func boolPtr(b bool) *bool {
	return &b
}

// BoolPtr is exported version of boolPtr for external use
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

func (c *Config) GetInsecure() bool {
	return getBool(c.Insecure, false)
}

func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// TimeoutDuration converts the millisecond timeout
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

// ConfigFilenames contains the possible config file names, in search order
var ConfigFilenames = []string{
	".pet.config.json",
	"pet.config.json",
	".petrc",
	".petrc.json",
	"pet.config.yaml",
	"pet.config.yml",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.UserAgent != "" {
		result.UserAgent = other.UserAgent
	}
	if other.Output != "" {
		result.Output = other.Output
	}
	if other.History != "" {
		result.History = other.History
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Insecure != nil {
		result.Insecure = other.Insecure
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(other.Headers) > 0 {
		merged := make(map[string]string, len(c.Headers)+len(other.Headers))
		for k, v := range c.Headers {
			merged[k] = v
		}
		for k, v := range other.Headers {
			merged[k] = v
		}
		result.Headers = merged
	}

	return &result
}

// SaveConfig saves the configuration to a file, as YAML when the extension asks for it
func (c *Config) SaveConfig(path string) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
