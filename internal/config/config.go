package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/menta2k/bookcrop/pkg/crop"
)

// Config holds the application configuration
type Config struct {
	Crop    CropConfig    `json:"crop"`
	Preview PreviewConfig `json:"preview"`
	Export  ExportConfig  `json:"export"`
}

// CropConfig holds default crop geometry for new documents
type CropConfig struct {
	DefaultWidth  int  `json:"default_width"`
	DefaultHeight int  `json:"default_height"`
	DoublePage    bool `json:"double_page"`
}

// PreviewConfig holds the bounds of the scaled on-screen previews
type PreviewConfig struct {
	MaxWidth  int `json:"max_width"`
	MaxHeight int `json:"max_height"`
}

// ExportConfig holds configuration for output generation
type ExportConfig struct {
	Format   string `json:"format"`
	Quality  int    `json:"quality"`
	Lossless bool   `json:"lossless"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Crop: CropConfig{
			DefaultWidth:  crop.DefaultCropWidth,
			DefaultHeight: crop.DefaultCropHeight,
			DoublePage:    false,
		},
		Preview: PreviewConfig{
			MaxWidth:  800,
			MaxHeight: 600,
		},
		Export: ExportConfig{
			Format:  "",
			Quality: 95,
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
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
	s := crop.Settings{Width: c.Crop.DefaultWidth, Height: c.Crop.DefaultHeight}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("crop: %w", err)
	}

	if c.Preview.MaxWidth < 1 || c.Preview.MaxHeight < 1 {
		return fmt.Errorf("preview.max_width and preview.max_height must be positive")
	}

	switch c.Export.Format {
	case "", "jpg", "jpeg", "png", "webp":
	default:
		return fmt.Errorf("export.format must be jpg, png or webp")
	}

	if c.Export.Quality < 1 || c.Export.Quality > 100 {
		return fmt.Errorf("export.quality must be between 1 and 100")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "bookcrop", "config.json")
}
