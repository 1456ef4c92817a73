// Package config loads server settings from an optional YAML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the YAML file, environment
// variables. The file path comes from the caller (the --config flag) or
// CHARSEG_CONFIG.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/charseg-mcp/internal/segment"
)

// Environment variables read by Load.
const (
	EnvConfigPath   = "CHARSEG_CONFIG"
	EnvLogLevel     = "CHARSEG_LOG_LEVEL"
	EnvMinCharWidth = "CHARSEG_MIN_CHAR_WIDTH"
	EnvMaxCharWidth = "CHARSEG_MAX_CHAR_WIDTH"
	EnvBatchWorkers = "CHARSEG_BATCH_WORKERS"
	// EnvTemplates is a list of template YAML files separated by the OS path
	// list separator.
	EnvTemplates = "CHARSEG_TEMPLATES"
)

// Config holds server configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Segmentation defaults applied when a tool call does not override them.
	Segment segment.Config `yaml:"segment"`

	// BatchWorkers bounds concurrent rows in segment_template. 0 means one per CPU.
	BatchWorkers int `yaml:"batch_workers"`

	// Templates lists extra paper template files loaded after the built-ins.
	Templates []string `yaml:"templates"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Segment:  segment.DefaultConfig(),
	}
}

// Load builds the configuration. An empty path falls back to CHARSEG_CONFIG;
// if that is empty too, no file is read.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var errs []error
	var err error

	c.LogLevel = getEnvOrDefault(EnvLogLevel, c.LogLevel)
	if c.Segment.MinCharWidth, err = getEnvAsIntOrDefault(EnvMinCharWidth, c.Segment.MinCharWidth); err != nil {
		errs = append(errs, err)
	}
	if c.Segment.MaxCharWidth, err = getEnvAsIntOrDefault(EnvMaxCharWidth, c.Segment.MaxCharWidth); err != nil {
		errs = append(errs, err)
	}
	if c.BatchWorkers, err = getEnvAsIntOrDefault(EnvBatchWorkers, c.BatchWorkers); err != nil {
		errs = append(errs, err)
	}
	if v := os.Getenv(EnvTemplates); v != "" {
		for _, p := range strings.Split(v, string(os.PathListSeparator)) {
			if p = strings.TrimSpace(p); p != "" {
				c.Templates = append(c.Templates, p)
			}
		}
	}
	return errors.Join(errs...)
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%s must be debug, info, warn or error, got %q", EnvLogLevel, c.LogLevel)
	}
	if c.BatchWorkers < 0 {
		return fmt.Errorf("%s must not be negative, got %d", EnvBatchWorkers, c.BatchWorkers)
	}
	if err := c.Segment.Validate(); err != nil {
		return errors.Join(errors.New("invalid segment settings"), err)
	}
	return nil
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault gets environment variable as int or returns default.
// A set but malformed value is an error and leaves the default in place.
func getEnvAsIntOrDefault(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be an integer, got %q", key, valueStr)
	}

	return value, nil
}
