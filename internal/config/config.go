package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	Overlay OverlayConfig `json:"overlay"`
	Font    FontConfig    `json:"font"`
	Output  OutputConfig  `json:"output"`
}

// OverlayConfig holds defaults for the title bar and blur layer
type OverlayConfig struct {
	Transparency int `json:"transparency"`
	Blur         int `json:"blur"`
	BlurRadius   int `json:"blur_radius"`
}

// FontConfig holds font resolution defaults
type FontConfig struct {
	DefaultFamily string `json:"default_family"`
}

// OutputConfig holds output path and encoding defaults
type OutputConfig struct {
	Suffix  string `json:"suffix"`
	Quality int    `json:"quality"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Overlay: OverlayConfig{
			Transparency: 20,
			Blur:         0,
			BlurRadius:   5,
		},
		Font: FontConfig{
			DefaultFamily: "Arial",
		},
		Output: OutputConfig{
			Suffix:  "_labeled",
			Quality: 90,
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
	if c.Overlay.Transparency < 0 || c.Overlay.Transparency > 100 {
		return fmt.Errorf("overlay.transparency must be between 0 and 100")
	}

	if c.Overlay.Blur < 0 || c.Overlay.Blur > 100 {
		return fmt.Errorf("overlay.blur must be between 0 and 100")
	}

	if c.Overlay.BlurRadius < 0 {
		return fmt.Errorf("overlay.blur_radius must not be negative")
	}

	if c.Font.DefaultFamily == "" {
		return fmt.Errorf("font.default_family cannot be empty")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "image-titler", "config.json")
}
