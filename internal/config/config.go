package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/menta2k/image-filter/pkg/types"
)

// Config holds the application configuration
type Config struct {
	Filter     types.FilterConfig `json:"filter" yaml:"filter"`
	Output     OutputConfig       `json:"output" yaml:"output"`
	Processing ProcessingConfig   `json:"processing" yaml:"processing"`
	Store      StoreConfig        `json:"store" yaml:"store"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	Format   string `json:"format" yaml:"format"`
	Quality  int    `json:"quality" yaml:"quality"`
	Lossless bool   `json:"lossless" yaml:"lossless"`
	Dir      string `json:"dir" yaml:"dir"`
	Prefix   string `json:"prefix" yaml:"prefix"`
	Suffix   string `json:"suffix" yaml:"suffix"`
}

// ProcessingConfig holds configuration for decoding and running the pipeline
type ProcessingConfig struct {
	Workers          int      `json:"workers" yaml:"workers"`
	MaxDimension     int      `json:"max_dimension" yaml:"max_dimension"`
	MinImageSize     int      `json:"min_image_size" yaml:"min_image_size"`
	SupportedFormats []string `json:"supported_formats" yaml:"supported_formats"`
	TimeoutSeconds   int      `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// StoreConfig holds the optional Postgres sink settings. An empty DSN
// disables the sink.
type StoreConfig struct {
	DSN string `json:"dsn" yaml:"dsn"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format:  "jpg",
			Quality: 90,
			Dir:     "./output",
			Suffix:  "_edited",
		},
		Processing: ProcessingConfig{
			Workers:          1,
			MinImageSize:     1,
			SupportedFormats: []string{"jpeg", "png", "webp", "bmp", "tiff", "gif"},
			TimeoutSeconds:   60,
		},
	}
}

// LoadFromFile loads configuration from a JSON or YAML file. Fields missing
// from the file keep their defaults.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if isYAML(filename) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON or YAML file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isYAML(filename) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Filter.Validate(); err != nil {
		return fmt.Errorf("filter: %w", err)
	}

	if err := c.EncodeOptions().Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	if c.Processing.Workers < 0 {
		return fmt.Errorf("processing.workers must not be negative")
	}

	if c.Processing.MaxDimension < 0 {
		return fmt.Errorf("processing.max_dimension must not be negative")
	}

	if c.Processing.MinImageSize < 1 {
		return fmt.Errorf("processing.min_image_size must be positive")
	}

	if len(c.Processing.SupportedFormats) == 0 {
		return fmt.Errorf("processing.supported_formats cannot be empty")
	}

	return nil
}

// EncodeOptions returns the output section as encoder options
func (c *Config) EncodeOptions() types.EncodeOptions {
	return types.EncodeOptions{
		Format:   strings.ToLower(c.Output.Format),
		Quality:  c.Output.Quality,
		Lossless: c.Output.Lossless,
	}
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}
	return filepath.Join(home, ".config", "image-filter", "config.yaml")
}

func isYAML(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}
