// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all contactbook configuration.
type Config struct {
	Book Book `yaml:"book"`
	List List `yaml:"list"`
	Log  Log  `yaml:"log"`
}

// Book holds snapshot file settings.
type Book struct {
	Path string `yaml:"path"` // .json, .yaml or .yml; "~/" is expanded by the CLI
}

// List holds paging settings for the list command.
type List struct {
	PageSize int `yaml:"page_size"`
}

// Log holds CLI logging settings.
type Log struct {
	Level  string `yaml:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `yaml:"format"` // "text" | "json"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Book: Book{
			Path: "~/.contactbook/book.json",
		},
		List: List{
			PageSize: 5,
		},
		Log: Log{
			Level:  "warn",
			Format: "text",
		},
	}
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Book.Path == "" {
		return errors.New("config: book.path cannot be empty")
	}
	if c.List.PageSize <= 0 {
		return fmt.Errorf("config: list.page_size must be positive, got %d", c.List.PageSize)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("config: log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
		// valid
	default:
		return fmt.Errorf("config: log.format must be \"text\" or \"json\", got %q", c.Log.Format)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: CONTACTBOOK_BOOK, CONTACTBOOK_PAGE_SIZE,
// CONTACTBOOK_LOG_LEVEL, CONTACTBOOK_LOG_FORMAT.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("CONTACTBOOK_BOOK"); v != "" {
		c.Book.Path = v
	}
	if v := os.Getenv("CONTACTBOOK_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid CONTACTBOOK_PAGE_SIZE %q: %w", v, err)
		}
		c.List.PageSize = n
	}
	if v := os.Getenv("CONTACTBOOK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CONTACTBOOK_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Book *rawBook `yaml:"book"`
	List *rawList `yaml:"list"`
	Log  *rawLog  `yaml:"log"`
}

type rawBook struct {
	Path *string `yaml:"path"`
}

type rawList struct {
	PageSize *int `yaml:"page_size"`
}

type rawLog struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Book != nil && layer.Book.Path != nil {
		c.Book.Path = *layer.Book.Path
	}
	if layer.List != nil && layer.List.PageSize != nil {
		c.List.PageSize = *layer.List.PageSize
	}
	if layer.Log != nil {
		if layer.Log.Level != nil {
			c.Log.Level = *layer.Log.Level
		}
		if layer.Log.Format != nil {
			c.Log.Format = *layer.Log.Format
		}
	}
}
