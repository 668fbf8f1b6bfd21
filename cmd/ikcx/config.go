package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/saylorsolutions/ikcx/pkg/intercept"
)

// Config holds settings that may be loaded from a YAML file.
// Command line flags override anything set here.
type Config struct {
	Suffix   string            `yaml:"suffix"`
	OutDir   string            `yaml:"out_dir"`
	Jobs     int               `yaml:"jobs"`
	Timeout  time.Duration     `yaml:"timeout"`
	LogLevel string            `yaml:"log_level"`
	Headers  map[string]string `yaml:"headers"`
}

func defaultConfig() *Config {
	return &Config{
		Suffix:   intercept.DefaultSuffix,
		Jobs:     4,
		Timeout:  30 * time.Second,
		LogLevel: "info",
		Headers: map[string]string{
			"ikc-platform": "android-beta",
		},
	}
}

// loadConfig reads the config file at path over the defaults.
// An empty path just returns the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if len(path) == 0 {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(strings.TrimSpace(c.Suffix)) == 0 {
		return errors.New("suffix must not be empty")
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}

func (c *Config) transportOpts() []intercept.TransportOpt {
	opts := make([]intercept.TransportOpt, 0, len(c.Headers))
	for k, v := range c.Headers {
		opts = append(opts, intercept.WithRequestHeader(k, v))
	}
	return opts
}
