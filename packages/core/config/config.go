package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the checkrun configuration
type Config struct {
	Verbose    *bool  `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	NoColor    *bool  `yaml:"noColor,omitempty" json:"noColor,omitempty"`
	Output     string `yaml:"output,omitempty" json:"output,omitempty"`         // console, json, junit, tap or html
	OutputFile string `yaml:"outputFile,omitempty" json:"outputFile,omitempty"` // empty means stdout
	History    string `yaml:"history,omitempty" json:"history,omitempty"`       // sqlite connection string
}

// BoolPtr returns a pointer to b.
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

// defaultVerbose is true unless the CI environment variable is set.
func defaultVerbose() bool {
	return os.Getenv("CI") == ""
}

// GetVerbose returns the verbose setting, defaulting to true outside CI
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, defaultVerbose())
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetOutput returns the output format, defaulting to console
func (c *Config) GetOutput() string {
	if c.Output == "" {
		return "console"
	}
	return c.Output
}

// ConfigFilenames contains the possible config file names, in lookup order
var ConfigFilenames = []string{
	".checkrun.yaml",
	".checkrun.yml",
	"checkrun.yaml",
	"checkrun.json",
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Verbose: BoolPtr(defaultVerbose()),
		NoColor: BoolPtr(false),
		Output:  "console",
	}
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
	if path := FindConfigFile(dir); path != "" {
		return loadConfigFromFile(path)
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// FindConfigFile returns the first config file present in dir, or "".
func FindConfigFile(dir string) string {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}
	return ""
}

// loadConfigFromFile loads and validates configuration from a specific file
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if other.Output != "" {
		result.Output = other.Output
	}
	if other.OutputFile != "" {
		result.OutputFile = other.OutputFile
	}
	if other.History != "" {
		result.History = other.History
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	return &result
}

// SaveConfig writes the configuration to path. Files ending in .json are
// written as JSON, everything else as YAML.
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
