package singleton

import (
	"fmt"

	"github.com/mohae/deepcopy"
)

// Clone copies src under the registry's policy.
//
// The strict policy refuses outright, the Go rendition of a clone override
// that throws. The permissive policy deep-copies the source and assigns a
// fresh identity: same fingerprint, different object, singleton broken.
func (r *Registry) Clone(src *Instance) (*Instance, error) {
	if src == nil {
		return nil, fmt.Errorf("cannot clone nil instance")
	}
	if r.policy == PolicyStrict {
		return nil, NewGuardError("clone", r.policy, ErrCloneNotSupported)
	}
	copied, ok := deepcopy.Copy(src).(*Instance)
	if !ok {
		return nil, fmt.Errorf("failed to copy instance")
	}
	id, err := NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to clone instance: %w", err)
	}
	copied.ID = id
	copied.Origin = OriginCloned
	return copied, nil
}
