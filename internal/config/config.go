// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"cloudbasket/internal/errors"
	"cloudbasket/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" yaml:"version"`

	// Catalog contains catalog file locations
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`

	// Basket contains basket engine defaults
	Basket BasketConfig `json:"basket" yaml:"basket"`

	// Sessions contains session store configuration
	Sessions SessionsConfig `json:"sessions" yaml:"sessions"`

	// Export contains export configuration
	Export ExportConfig `json:"export" yaml:"export"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" yaml:"logging"`
}

// CatalogConfig points at the three catalog files
type CatalogConfig struct {
	// ComputePath is the compute instance catalog
	ComputePath string `json:"compute_path" yaml:"compute_path"`

	// VolumePath is the block storage catalog
	VolumePath string `json:"volume_path" yaml:"volume_path"`

	// DatabasePath is the managed database catalog
	DatabasePath string `json:"database_path" yaml:"database_path"`
}

// BasketConfig contains basket engine defaults
type BasketConfig struct {
	// StorageSentinel is the compute storage tag that requires attached block storage
	StorageSentinel string `json:"storage_sentinel" yaml:"storage_sentinel"`

	// DefaultVolumeType is offered first when storage is requested
	DefaultVolumeType string `json:"default_volume_type" yaml:"default_volume_type"`

	// DefaultVolumeSizeGB is the size offered when storage is requested
	DefaultVolumeSizeGB int `json:"default_volume_size_gb" yaml:"default_volume_size_gb"`
}

// SessionsConfig selects the session backing store
type SessionsConfig struct {
	// Backend is one of memory, file, bolt
	Backend string `json:"backend" yaml:"backend"`

	// Path is the file or database location for durable backends
	Path string `json:"path" yaml:"path"`
}

// ExportConfig contains tabular export placeholders
type ExportConfig struct {
	// Environment fills the Environment column
	Environment string `json:"environment" yaml:"environment"`

	// Tags fills the Tags column
	Tags string `json:"tags" yaml:"tags"`

	// Directory is where export files are written
	Directory string `json:"directory" yaml:"directory"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	baseDir := filepath.Join(homeDir, ".cloudbasket")

	return &Config{
		Version: "1.0",
		Catalog: CatalogConfig{
			ComputePath:  filepath.Join(baseDir, "catalog", "compute.json"),
			VolumePath:   filepath.Join(baseDir, "catalog", "volume.json"),
			DatabasePath: filepath.Join(baseDir, "catalog", "database.json"),
		},
		Basket: BasketConfig{
			StorageSentinel:     "EBS only",
			DefaultVolumeType:   "gp3",
			DefaultVolumeSizeGB: 8,
		},
		Sessions: SessionsConfig{
			Backend: "bolt",
			Path:    filepath.Join(baseDir, "sessions.db"),
		},
		Export: ExportConfig{
			Directory: ".",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a JSON or YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Config("failed to read config", err)
	}

	config := Default()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, errors.Config("failed to parse config "+path, err)
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
