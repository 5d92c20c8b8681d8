package config

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/compozy/solo/pkg/logger"
)

// Manager handles configuration with atomic updates.
type Manager struct {
	Service   Service
	current   atomic.Value // stores *Config
	sources   []Source
	reloadMu  sync.Mutex
	closeOnce sync.Once
}

// NewManager creates a new configuration manager.
func NewManager(service Service) *Manager {
	if service == nil {
		service = NewService()
	}
	return &Manager{
		Service: service,
	}
}

// Load loads configuration from sources and stores the result atomically.
func (m *Manager) Load(ctx context.Context, sources ...Source) (*Config, error) {
	// Store sources for reload (copy to avoid caller mutation)
	m.reloadMu.Lock()
	m.sources = append([]Source(nil), sources...)
	m.reloadMu.Unlock()

	config, err := m.Service.Load(ctx, sources...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	m.current.Store(config)
	return config, nil
}

// Sources returns a copy of the currently configured sources.
func (m *Manager) Sources() []Source {
	m.reloadMu.Lock()
	defer m.reloadMu.Unlock()
	if len(m.sources) == 0 {
		return []Source{}
	}
	out := make([]Source, len(m.sources))
	copy(out, m.sources)
	return out
}

// Get returns the current configuration atomically.
func (m *Manager) Get() *Config {
	val := m.current.Load()
	if val == nil {
		return nil
	}
	config, ok := val.(*Config)
	if !ok {
		return nil
	}
	return config
}

// Reload forces a configuration reload from all sources.
func (m *Manager) Reload(ctx context.Context) error {
	m.reloadMu.Lock()
	defer m.reloadMu.Unlock()

	newConfig, err := m.Service.Load(ctx, m.sources...)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}

	// Validate the new configuration before applying
	if err := m.Service.Validate(newConfig); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.current.Store(newConfig)
	return nil
}

// Close releases all configuration sources.
func (m *Manager) Close(ctx context.Context) error {
	m.closeOnce.Do(func() {
		m.reloadMu.Lock()
		sourcesCopy := append([]Source(nil), m.sources...)
		m.reloadMu.Unlock()
		// Close all sources using a copy to avoid holding locks during Close()
		for _, source := range sourcesCopy {
			if source != nil {
				if err := source.Close(); err != nil {
					logger.FromContext(ctx).Error("failed to close configuration source", "error", err)
				}
			}
		}
	})

	return nil
}
