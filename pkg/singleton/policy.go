package singleton

import "fmt"

// Policy selects how a Registry treats the three bypass vectors: forced
// construction, snapshot decode, and clone. The accessor itself is guarded
// under every policy.
type Policy string

const (
	// PolicyStrict rejects forced construction and cloning once the canonical
	// instance exists, and resolves snapshot decodes back to it.
	PolicyStrict Policy = "strict"
	// PolicyPermissive lets every bypass succeed with a fresh identity. It
	// reproduces the unguarded behavior on purpose, for demos and contrast
	// tests.
	PolicyPermissive Policy = "permissive"
)

func (p Policy) String() string {
	return string(p)
}

// IsValid reports whether p names a known policy.
func (p Policy) IsValid() bool {
	switch p {
	case PolicyStrict, PolicyPermissive:
		return true
	default:
		return false
	}
}

// ParsePolicy converts a configuration string into a Policy.
func ParsePolicy(s string) (Policy, error) {
	p := Policy(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown policy: %q", s)
	}
	return p, nil
}
