// Package config loads the verso YAML configuration that supplies defaults
// for documents which leave layout parameters unset.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/verso/layout"
)

// Config is the root of the configuration file.
type Config struct {
	Verse VerseConfig `yaml:"verse"`
	Page  PageConfig  `yaml:"page"`
	Fonts FontsConfig `yaml:"fonts"`
}

// VerseConfig mirrors the per-document verse keys.
type VerseConfig struct {
	LineHeight      string `yaml:"line_height"`
	Width           string `yaml:"width"`
	FontSize        string `yaml:"font_size"`
	NoLineNumbers   bool   `yaml:"no_line_numbers"`
	CounterSkipChar string `yaml:"counter_skip_char"`
}

type PageConfig struct {
	Size   string `yaml:"size"`
	Margin string `yaml:"margin"`
}

// FontsConfig points the PDF renderer at font files. Empty paths use the built-in faces.
type FontsConfig struct {
	Regular    string `yaml:"regular"`
	Bold       string `yaml:"bold"`
	Italic     string `yaml:"italic"`
	BoldItalic string `yaml:"bold_italic"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	stock := layout.StockDefaults()
	return Config{
		Verse: VerseConfig{
			LineHeight:      stock.LineHeight,
			Width:           stock.Width,
			FontSize:        stock.FontSize,
			CounterSkipChar: stock.CounterSkipChar,
		},
		Page: PageConfig{
			Size:   stock.PageSize,
			Margin: stock.Margin,
		},
	}
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "verso", "config.yaml")
}

// Load reads configPath when it exists, fills unset values from DefaultConfig
// and validates the result. A missing file is not an error.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Verse.LineHeight == "" {
		c.Verse.LineHeight = defaults.Verse.LineHeight
	}
	if c.Verse.Width == "" {
		c.Verse.Width = defaults.Verse.Width
	}
	if c.Verse.FontSize == "" {
		c.Verse.FontSize = defaults.Verse.FontSize
	}
	if c.Verse.CounterSkipChar == "" {
		c.Verse.CounterSkipChar = defaults.Verse.CounterSkipChar
	}
	if c.Page.Size == "" {
		c.Page.Size = defaults.Page.Size
	}
	if c.Page.Margin == "" {
		c.Page.Margin = defaults.Page.Margin
	}
}

// Defaults converts the configuration into layout defaults.
func (c *Config) Defaults() layout.Defaults {
	return layout.Defaults{
		LineHeight:      c.Verse.LineHeight,
		Width:           c.Verse.Width,
		FontSize:        c.Verse.FontSize,
		NoLineNumbers:   c.Verse.NoLineNumbers,
		CounterSkipChar: c.Verse.CounterSkipChar,
		PageSize:        c.Page.Size,
		Margin:          c.Page.Margin,
	}
}
