package singleton

import "sync"

// Package-level default registry (unexported to force access via functions).
var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Configure builds the package-level default registry with the given options.
// Only the first call takes effect; whichever of Configure, Default, or the
// package accessors runs first wins, exactly once. The winning registry is
// returned so callers can inspect the policy actually in force.
func Configure(opts ...Option) *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(opts...)
	})
	return defaultRegistry
}

// Default returns the package-level default registry, building a strict one
// on first use.
func Default() *Registry {
	return Configure()
}

// Get returns the canonical instance of the default registry, constructing it
// on first use.
func Get() (*Instance, error) {
	return Default().Get()
}

// MustGet is like Get but panics when identity generation fails.
func MustGet() *Instance {
	return Default().MustGet()
}

// ForceNew forces a construction through the default registry's guard.
func ForceNew() (*Instance, error) {
	return Default().ForceNew()
}

// Decode decodes snapshot bytes under the default registry's policy.
func Decode(data []byte) (*Instance, error) {
	return Default().Decode(data)
}

// Clone copies src under the default registry's policy.
func Clone(src *Instance) (*Instance, error) {
	return Default().Clone(src)
}

// For testing only: reset the package-level registry (unexported).
func resetForTest() {
	defaultOnce = sync.Once{}
	defaultRegistry = nil
}
