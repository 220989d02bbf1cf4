package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = "rift.yaml"

// Load loads the rift rule tables.
// Search order: customPath -> ~/.riftlane/configs/rift.yaml -> ./configs/rift.yaml -> embedded default
func Load(customPath string) (RiftConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return RiftConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return RiftConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(configFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", configFile)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultRiftYAML)
	if err != nil {
		return DefaultRiftConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes a YAML document on top of the hardcoded defaults, so a
// partial file only overrides the keys it names.
func Parse(data []byte) (RiftConfig, error) {
	cfg := DefaultRiftConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RiftConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return RiftConfig{}, err
	}
	return cfg, nil
}

// Validate rejects rule tables the engine cannot run with.
func (c RiftConfig) Validate() error {
	switch {
	case c.Grid.CellSize <= 0:
		return fmt.Errorf("grid.cell_size must be positive, got %v", c.Grid.CellSize)
	case c.Zones.ProtectedRadius <= 0:
		return fmt.Errorf("zones.protected_radius must be positive, got %v", c.Zones.ProtectedRadius)
	case c.Zones.InnerRadius <= c.Zones.ProtectedRadius:
		return fmt.Errorf("zones.inner_radius (%v) must exceed protected_radius (%v)",
			c.Zones.InnerRadius, c.Zones.ProtectedRadius)
	case c.Zones.Width <= 0:
		return fmt.Errorf("zones.width must be positive, got %v", c.Zones.Width)
	case c.Zones.MaxZones < 1:
		return fmt.Errorf("zones.max_zones must be at least 1, got %d", c.Zones.MaxZones)
	case c.Towers.RefundRatio < 0 || c.Towers.RefundRatio > 1:
		return fmt.Errorf("towers.refund_ratio must be within [0, 1], got %v", c.Towers.RefundRatio)
	case c.Towers.MaxTier < 1:
		return fmt.Errorf("towers.max_tier must be at least 1, got %d", c.Towers.MaxTier)
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".riftlane", "configs", filename)
}
