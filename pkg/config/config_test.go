package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Default(t *testing.T) {
	t.Run("Should return valid default configuration", func(t *testing.T) {
		// Act
		cfg := Default()

		// Assert
		require.NotNil(t, cfg)

		// Policy defaults
		assert.Equal(t, "strict", cfg.Policy)

		// Log defaults
		assert.Equal(t, "info", cfg.Log.Level)
		assert.False(t, cfg.Log.JSON)
		assert.False(t, cfg.Log.Source)

		// Store defaults
		assert.Equal(t, ".solo/instance.json", cfg.Store.Path)

		// Stress defaults
		assert.Equal(t, 16, cfg.Stress.Workers)
		assert.Equal(t, 30*time.Second, cfg.Stress.Timeout)
	})

	t.Run("Should produce a configuration that passes validation", func(t *testing.T) {
		svc := NewService()
		assert.NoError(t, svc.Validate(Default()))
	})
}

func TestConfig_Validation(t *testing.T) {
	t.Run("Should validate policy values", func(t *testing.T) {
		tests := []struct {
			name    string
			policy  string
			wantErr bool
		}{
			{"strict", "strict", false},
			{"permissive", "permissive", false},
			{"unknown", "singleton", true},
			{"empty", "", true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				cfg := Default()
				cfg.Policy = tt.policy

				svc := NewService()
				err := svc.Validate(cfg)

				if tt.wantErr {
					assert.Error(t, err)
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})

	t.Run("Should validate log levels", func(t *testing.T) {
		tests := []struct {
			name     string
			logLevel string
			wantErr  bool
		}{
			{"debug", "debug", false},
			{"info", "info", false},
			{"warn", "warn", false},
			{"error", "error", false},
			{"disabled", "disabled", false},
			{"invalid", "verbose", true},
			{"empty", "", true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				cfg := Default()
				cfg.Log.Level = tt.logLevel

				svc := NewService()
				err := svc.Validate(cfg)

				if tt.wantErr {
					assert.Error(t, err)
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})

	t.Run("Should validate stress worker bounds", func(t *testing.T) {
		tests := []struct {
			name    string
			workers int
			wantErr bool
		}{
			{"single worker", 1, false},
			{"default workers", 16, false},
			{"maximum workers", 4096, false},
			{"zero workers", 0, true},
			{"negative workers", -1, true},
			{"too many workers", 4097, true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				cfg := Default()
				cfg.Stress.Workers = tt.workers

				svc := NewService()
				err := svc.Validate(cfg)

				if tt.wantErr {
					assert.Error(t, err)
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})

	t.Run("Should validate store and timeout constraints", func(t *testing.T) {
		tests := []struct {
			name    string
			modify  func(*Config)
			wantErr bool
			errMsg  string
		}{
			{
				"valid configuration",
				func(_ *Config) {},
				false,
				"",
			},
			{
				"negative stress timeout",
				func(c *Config) { c.Stress.Timeout = -1 * time.Second },
				true,
				"stress timeout must not be negative",
			},
			{
				"store path pointing at a directory",
				func(c *Config) { c.Store.Path = ".solo/" },
				true,
				"store path must reference a file",
			},
			{
				"empty store path",
				func(c *Config) { c.Store.Path = "" },
				true,
				"",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				cfg := Default()
				tt.modify(cfg)

				svc := NewService()
				err := svc.Validate(cfg)

				if tt.wantErr {
					assert.Error(t, err)
					if tt.errMsg != "" {
						assert.Contains(t, err.Error(), tt.errMsg)
					}
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})

	t.Run("Should reject nil configuration", func(t *testing.T) {
		svc := NewService()
		err := svc.Validate(nil)
		assert.Error(t, err)
	})
}

func TestMetadata_SourceTracking(t *testing.T) {
	t.Run("Should track configuration sources", func(t *testing.T) {
		meta := Metadata{
			Sources: map[string]SourceType{
				"policy":         SourceCLI,
				"log.level":      SourceEnv,
				"store.path":     SourceYAML,
				"stress.workers": SourceDefault,
			},
		}

		assert.Equal(t, SourceCLI, meta.Sources["policy"])
		assert.Equal(t, SourceEnv, meta.Sources["log.level"])
		assert.Equal(t, SourceYAML, meta.Sources["store.path"])
		assert.Equal(t, SourceDefault, meta.Sources["stress.workers"])
	})
}
