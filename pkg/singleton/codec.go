package singleton

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// snapshot is the wire form of an Instance. The source identity travels with
// the payload for provenance; strict decodes validate it and then discard it.
type snapshot struct {
	ID        ID        `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Origin    Origin    `json:"origin"`
}

// Encode serializes inst to its JSON snapshot form.
func Encode(inst *Instance) ([]byte, error) {
	if inst == nil {
		return nil, fmt.Errorf("cannot encode nil instance")
	}
	data, err := json.Marshal(snapshot{
		ID:        inst.ID,
		CreatedAt: inst.CreatedAt,
		Origin:    inst.Origin,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode instance: %w", err)
	}
	return data, nil
}

// Decode materializes an instance from snapshot bytes under the registry's
// policy.
//
// Strict: the payload is parsed and validated, then resolved to the canonical
// instance from the accessor, so decoding an encoded snapshot always lands on
// the canonical identity. Permissive: every call produces a new object
// carrying the snapshot's state and a fresh identity, the way unguarded
// deserialization mints a second object.
func (r *Registry) Decode(data []byte) (*Instance, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if _, err := ParseID(snap.ID.String()); err != nil {
		return nil, fmt.Errorf("invalid snapshot identity: %w", err)
	}
	if r.policy == PolicyStrict {
		return r.Get()
	}
	id, err := NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &Instance{
		ID:        id,
		CreatedAt: snap.CreatedAt,
		Origin:    OriginDecoded,
	}, nil
}

// WriteSnapshot encodes inst and writes it to path on fs, creating parent
// directories as needed.
func WriteSnapshot(fs afero.Fs, path string, inst *Instance) error {
	data, err := Encode(inst)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot reads the snapshot at path from fs and decodes it under the
// registry's policy.
func (r *Registry) ReadSnapshot(fs afero.Fs, path string) (*Instance, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return r.Decode(data)
}

// VerifyRoundTrip encodes the canonical instance, decodes the bytes, and
// checks that the result resolves back to the canonical identity. A wrapped
// ErrIdentityMismatch means the round trip escaped the singleton, which is
// exactly what a permissive registry exhibits.
func (r *Registry) VerifyRoundTrip() error {
	canonical, err := r.Get()
	if err != nil {
		return err
	}
	data, err := Encode(canonical)
	if err != nil {
		return err
	}
	decoded, err := r.Decode(data)
	if err != nil {
		return err
	}
	if !decoded.Equal(canonical) {
		return fmt.Errorf("decoded %s, canonical %s: %w", decoded.ID, canonical.ID, ErrIdentityMismatch)
	}
	return nil
}
