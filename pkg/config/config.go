package config

import (
	"context"
	"time"
)

// Config represents the complete configuration for the solo runtime.
// It provides type-safe access to all configuration values with validation.
type Config struct {
	Policy string       `koanf:"policy" validate:"required,oneof=strict permissive" env:"SOLO_POLICY"`
	Log    LogConfig    `koanf:"log"    validate:"required"`
	Store  StoreConfig  `koanf:"store"  validate:"required"`
	Stress StressConfig `koanf:"stress" validate:"required"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	Level  string `koanf:"level"  validate:"oneof=debug info warn error disabled" env:"SOLO_LOG_LEVEL"`
	JSON   bool   `koanf:"json"   env:"SOLO_LOG_JSON"`
	Source bool   `koanf:"source" env:"SOLO_LOG_SOURCE"`
}

// StoreConfig contains snapshot store configuration.
type StoreConfig struct {
	Path string `koanf:"path" validate:"required" env:"SOLO_STORE_PATH"`
}

// StressConfig contains settings for the concurrency exhibit.
type StressConfig struct {
	Workers int           `koanf:"workers" validate:"min=1,max=4096" env:"SOLO_STRESS_WORKERS"`
	Timeout time.Duration `koanf:"timeout" env:"SOLO_STRESS_TIMEOUT"`
}

// Service defines the configuration management service interface.
// It provides methods for loading and validating configuration.
type Service interface {
	// Load loads configuration from the specified sources with precedence order.
	Load(ctx context.Context, sources ...Source) (*Config, error)
	// Validate checks if the configuration meets all validation requirements.
	Validate(config *Config) error
	// GetSource returns the source type for a specific configuration key.
	// This tracks which source (env, CLI, YAML, default) provided each value,
	// enabling debugging and precedence verification.
	GetSource(key string) SourceType
}

// Source defines the interface for configuration sources.
type Source interface {
	// Load reads configuration from the source.
	Load() (map[string]any, error)
	// Type returns the source type identifier.
	Type() SourceType
	// Close releases any resources held by the source.
	Close() error
}

// SourceType identifies the type of configuration source.
type SourceType string

const (
	SourceCLI     SourceType = "cli"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceDefault SourceType = "default"
)

// Metadata contains metadata about configuration sources.
type Metadata struct {
	Sources  map[string]SourceType `json:"sources"`
	LoadedAt time.Time             `json:"loaded_at"`
}

// Load loads configuration using the default service.
// This is a convenience function for simple configuration loading.
func Load() (*Config, error) {
	service := NewService()
	return service.Load(context.Background())
}

// Default returns a Config with default values for development.
func Default() *Config {
	return &Config{
		Policy: "strict",
		Log: LogConfig{
			Level:  "info",
			JSON:   false,
			Source: false,
		},
		Store: StoreConfig{
			Path: ".solo/instance.json",
		},
		Stress: StressConfig{
			Workers: 16,
			Timeout: 30 * time.Second,
		},
	}
}
