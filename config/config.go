// Package config loads the service configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"purchasepredict/ml"
)

const (
	ValidationLenient = "lenient"
	ValidationStrict  = "strict"
)

type Config struct {
	Http struct {
		Host           string        `yaml:"host"`
		Port           int           `yaml:"port"`
		Timeout        time.Duration `yaml:"timeout"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"http"`
	Log   LogConfig `yaml:"log"`
	Model struct {
		Type             string `yaml:"type"`
		Path             string `yaml:"path"`
		SerializePredict bool   `yaml:"serialize_predict"`
	} `yaml:"model"`
	Transform struct {
		ImputeAfterAbs bool `yaml:"impute_after_abs"`
	} `yaml:"transform"`
	Validation struct {
		Mode string `yaml:"mode"`
	} `yaml:"validation"`
	Labels struct {
		Negative          string `yaml:"negative"`
		Positive          string `yaml:"positive"`
		LegacySingleLabel bool   `yaml:"legacy_single_label"`
	} `yaml:"labels"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
}

// LogConfig is shared with the logging package.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns the configuration used when a key is absent from the file.
func Default() *Config {
	var c Config
	c.Http.Host = "0.0.0.0"
	c.Http.Port = 8000
	c.Http.Timeout = 30 * time.Second
	c.Http.AllowedOrigins = []string{"*"}
	c.Log = LogConfig{
		Level:      "info",
		Format:     "json",
		MaxSizeMB:  100,
		MaxBackups: 3,
		MaxAgeDays: 28,
		Compress:   true,
	}
	c.Model.Type = "decision_tree"
	c.Model.Path = "models/final_model.json"
	c.Validation.Mode = ValidationLenient
	c.Labels.Negative = ml.DefaultNegativeLabel
	c.Labels.Positive = ml.DefaultPositiveLabel
	c.Metrics.Enabled = true
	c.Metrics.Path = "/metrics"
	return &c
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, config.Validate()
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.Http.Port <= 0 || c.Http.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.Http.Port)
	}
	if c.Http.Timeout <= 0 {
		return errors.New("http.timeout must be positive")
	}
	if c.Model.Path == "" {
		return errors.New("model.path is required")
	}
	switch c.Validation.Mode {
	case ValidationLenient, ValidationStrict:
	default:
		return fmt.Errorf("validation.mode must be %q or %q, got %q", ValidationLenient, ValidationStrict, c.Validation.Mode)
	}
	if c.Labels.Negative == "" || c.Labels.Positive == "" {
		return errors.New("labels.negative and labels.positive must be set")
	}
	if c.Metrics.Enabled && (c.Metrics.Path == "" || c.Metrics.Path[0] != '/') {
		return fmt.Errorf("metrics.path %q must start with /", c.Metrics.Path)
	}
	return nil
}

// Addr is host:port for the HTTP listener.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Http.Host, c.Http.Port)
}
