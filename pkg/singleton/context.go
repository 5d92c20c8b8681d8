package singleton

import "context"

// ContextKey is an alias used for storing values in context
type ContextKey string

const (
	// RegistryCtxKey is the context key used to store the *Registry instance
	RegistryCtxKey ContextKey = "singleton_registry"
)

// ContextWithRegistry stores the registry in the context.
func ContextWithRegistry(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, RegistryCtxKey, r)
}

// FromContext retrieves the registry from the context. If none is attached it
// falls back to the package default, so callers always get a usable registry
// even when the caller did not wire one explicitly.
func FromContext(ctx context.Context) *Registry {
	if ctx != nil {
		if r, ok := ctx.Value(RegistryCtxKey).(*Registry); ok && r != nil {
			return r
		}
	}
	return Default()
}
