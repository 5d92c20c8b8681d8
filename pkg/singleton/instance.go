package singleton

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Origin records which code path produced an Instance.
type Origin string

const (
	// OriginAccessor marks the canonical instance built inside the accessor's
	// critical section.
	OriginAccessor Origin = "accessor"
	// OriginForced marks a product of ForceNew.
	OriginForced Origin = "forced"
	// OriginDecoded marks a product of a permissive snapshot decode.
	OriginDecoded Origin = "decoded"
	// OriginCloned marks a product of a permissive clone.
	OriginCloned Origin = "cloned"
)

// Instance is the shared object a Registry manages. Identity lives in ID
// alone; CreatedAt and Origin are provenance for logs and demos and never
// participate in equality.
type Instance struct {
	ID        ID        `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Origin    Origin    `json:"origin"`
}

func newInstance(origin Origin) (*Instance, error) {
	id, err := NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to create instance: %w", err)
	}
	return &Instance{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Origin:    origin,
	}, nil
}

// Equal reports whether other designates the same instance. Only identity
// counts; provenance fields are ignored.
func (i *Instance) Equal(other *Instance) bool {
	if i == nil || other == nil {
		return i == other
	}
	return i.ID == other.ID
}

// Fingerprint returns a deterministic SHA-256 hex digest of the instance
// state, excluding identity and origin. Clones and decoded copies share a
// fingerprint with their source while carrying different IDs.
func (i *Instance) Fingerprint() string {
	payload := struct {
		CreatedAt time.Time `json:"created_at"`
	}{CreatedAt: i.CreatedAt}
	data, err := json.Marshal(payload)
	if err != nil {
		data = nil
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (i *Instance) String() string {
	return fmt.Sprintf("instance %s (origin=%s)", i.ID, i.Origin)
}
