package singleton

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyInitialized rejects forced construction once the canonical
	// instance exists.
	ErrAlreadyInitialized = errors.New("singleton instance already created")
	// ErrCloneNotSupported rejects cloning of a managed instance.
	ErrCloneNotSupported = errors.New("cloning is not supported for singleton instances")
	// ErrIdentityMismatch reports a snapshot round trip that did not resolve
	// back to the canonical identity.
	ErrIdentityMismatch = errors.New("snapshot round trip produced a different identity")
)

// GuardError wraps a guard rejection with the operation that tripped it and
// the policy in force. Guard failures are terminal for the attempted
// operation; callers report them and move on, they never retry.
type GuardError struct {
	Op     string
	Policy Policy
	Err    error
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("%s guard rejected %s: %v", e.Policy, e.Op, e.Err)
}

func (e *GuardError) Unwrap() error {
	return e.Err
}

func NewGuardError(op string, policy Policy, err error) *GuardError {
	return &GuardError{
		Op:     op,
		Policy: policy,
		Err:    err,
	}
}
