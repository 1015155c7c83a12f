// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"pdf2email/internal/paths"
	"pdf2email/internal/pdftext"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Debug   bool `yaml:"debug" toml:"debug"`
		NoColor bool `yaml:"no_color" toml:"no_color"`
	} `yaml:"defaults" toml:"defaults"`

	// Text extraction settings
	Extraction Extraction `yaml:"extraction" toml:"extraction"`
}

// Extraction configures how PDF pages are decoded.
type Extraction struct {
	Password         string `yaml:"password" toml:"password"`
	MaxPages         int    `yaml:"max_pages" toml:"max_pages"`
	Caching          bool   `yaml:"caching" toml:"caching"`
	CheckExtractable bool   `yaml:"check_extractable" toml:"check_extractable"`
	Normalize        string `yaml:"normalize" toml:"normalize"`
	Layout           struct {
		SpaceRatio      float64 `yaml:"space_ratio" toml:"space_ratio"`
		DefaultFontSize float64 `yaml:"default_font_size" toml:"default_font_size"`
	} `yaml:"layout" toml:"layout"`
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	config := &Config{}

	defaults := pdftext.DefaultOptions()
	config.Defaults.Debug = false
	config.Defaults.NoColor = false
	config.Extraction.Password = defaults.Password
	config.Extraction.MaxPages = defaults.MaxPages
	config.Extraction.Caching = defaults.Caching
	config.Extraction.CheckExtractable = defaults.CheckExtractable
	config.Extraction.Normalize = defaults.Normalize
	config.Extraction.Layout.SpaceRatio = defaults.Layout.SpaceRatio
	config.Extraction.Layout.DefaultFontSize = defaults.Layout.DefaultFontSize

	return config
}

// LoadConfig loads configuration from the specified file path. Files ending
// in .toml are parsed as TOML, everything else as YAML.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	if err := paths.ValidatePath(configPath); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Read config file
	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Decoding into the defaults leaves keys absent from the file untouched.
	if isTOML(cleanPath) {
		if _, err := toml.Decode(string(data), config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// Validate the configuration
	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FindConfigFile looks for a configuration file in the current directory and
// then in the user configuration directory. It returns "" when none exists.
func FindConfigFile() string {
	// Check current directory first
	for _, name := range []string{
		"pdf2email.yaml",
		"pdf2email.yml",
		"pdf2email.toml",
		".pdf2email.yaml",
		".pdf2email.yml",
	} {
		if fileExists(name) {
			return name
		}
	}

	// Check standard location
	for _, candidate := range paths.GetConfigFiles() {
		if fileExists(candidate) {
			return candidate
		}
	}

	return ""
}

// ExtractorOptions converts the extraction settings into decoder options.
func (c *Config) ExtractorOptions() pdftext.Options {
	opts := pdftext.DefaultOptions()
	opts.Password = c.Extraction.Password
	opts.MaxPages = c.Extraction.MaxPages
	opts.Caching = c.Extraction.Caching
	opts.CheckExtractable = c.Extraction.CheckExtractable
	opts.Normalize = strings.ToUpper(c.Extraction.Normalize)
	opts.Layout.SpaceRatio = c.Extraction.Layout.SpaceRatio
	opts.Layout.DefaultFontSize = c.Extraction.Layout.DefaultFontSize
	return opts
}

// ValidateConfig checks value ranges that decoding depends on
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if config.Extraction.MaxPages < 0 {
		return fmt.Errorf("extraction.max_pages must not be negative, got %d", config.Extraction.MaxPages)
	}

	if !pdftext.ValidNormalization(config.Extraction.Normalize) {
		return fmt.Errorf("extraction.normalize must be one of NFC, NFKC or empty, got %q", config.Extraction.Normalize)
	}

	if config.Extraction.Layout.SpaceRatio < 0 {
		return fmt.Errorf("extraction.layout.space_ratio must not be negative, got %v", config.Extraction.Layout.SpaceRatio)
	}
	if config.Extraction.Layout.DefaultFontSize < 0 {
		return fmt.Errorf("extraction.layout.default_font_size must not be negative, got %v", config.Extraction.Layout.DefaultFontSize)
	}

	return nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard locations
// when configFile is empty). If loading fails, it returns a default configuration.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
