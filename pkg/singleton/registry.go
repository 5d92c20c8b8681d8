package singleton

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// State is the lifecycle state of a Registry. It moves from uninitialized to
// initialized exactly once, on the first successful construction inside the
// accessor, and never transitions again. Bypass operations do not touch it.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateInitialized   State = "initialized"
)

func (s State) String() string {
	return string(s)
}

// Registry owns one lazily-created canonical Instance and the guards around
// it. Construct with NewRegistry; the zero value has no policy and is not
// usable.
//
// Holding the instance in an explicit container instead of ambient package
// state keeps ownership visible and lets tests run isolated registries side
// by side. The package-level functions in global.go layer the conventional
// process-wide accessor on top of a default Registry.
type Registry struct {
	policy        Policy
	current       atomic.Pointer[Instance]
	mu            sync.Mutex
	constructions atomic.Uint64
}

// Option customizes a Registry at construction time.
type Option func(*Registry)

// WithPolicy selects the guard policy. Invalid values are ignored and the
// strict default kept.
func WithPolicy(p Policy) Option {
	return func(r *Registry) {
		if p.IsValid() {
			r.policy = p
		}
	}
}

// NewRegistry builds an empty strict-policy Registry. The canonical instance
// is not created until the first Get.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{policy: PolicyStrict}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy returns the guard policy the registry was built with.
func (r *Registry) Policy() Policy {
	return r.policy
}

// Get returns the canonical instance, constructing it on first use.
//
// The fast path is a single atomic load: a non-nil pointer means the store
// that published it happens-before this load, so the instance is fully
// constructed and safe to share without further synchronization. The slow
// path takes the mutex and re-checks the pointer, because another goroutine
// may have won the race between the failed fast path and lock acquisition.
// Construction happens at most once and the pointer is published before the
// lock is released.
//
// Get fails only when identity generation fails; a failed construction leaves
// the registry uninitialized and a later call may succeed.
func (r *Registry) Get() (*Instance, error) {
	if inst := r.current.Load(); inst != nil {
		return inst, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if inst := r.current.Load(); inst != nil {
		return inst, nil
	}
	inst, err := newInstance(OriginAccessor)
	if err != nil {
		return nil, err
	}
	r.constructions.Add(1)
	r.current.Store(inst)
	return inst, nil
}

// MustGet is like Get but panics when identity generation fails.
func (r *Registry) MustGet() *Instance {
	inst, err := r.Get()
	if err != nil {
		panic(fmt.Sprintf("singleton: %v", err))
	}
	return inst
}

// ForceNew is the deliberately-unsafe construction entry point the bypass
// demos drive, standing in for reflective constructor access. Under the
// strict policy it fails with ErrAlreadyInitialized once the canonical
// instance exists; while the registry is still uninitialized it succeeds
// under either policy, matching a constructor guard that only fires when an
// instance is already live. The product is never adopted as canonical and
// does not advance the lifecycle state.
func (r *Registry) ForceNew() (*Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.policy == PolicyStrict && r.current.Load() != nil {
		return nil, NewGuardError("construct", r.policy, ErrAlreadyInitialized)
	}
	return newInstance(OriginForced)
}

// State reports the lifecycle state.
func (r *Registry) State() State {
	if r.current.Load() != nil {
		return StateInitialized
	}
	return StateUninitialized
}

// Initialized reports whether the canonical instance exists.
func (r *Registry) Initialized() bool {
	return r.current.Load() != nil
}

// Constructions returns how many times the accessor's critical section has
// constructed an instance. It stays at one no matter how many goroutines race
// Get; bypass products are not counted.
func (r *Registry) Constructions() uint64 {
	return r.constructions.Load()
}
