package cradle

import (
	"fmt"
	"slices"
)

// Kind describes a registered configuration record type.
type Kind struct {
	// ID is the configuration id (e.g., "cradle_confidential").
	ID string

	// New returns a zero record ready to be decoded into.
	New func() Record
}

// Registry maps configuration ids to record types.
type Registry struct {
	kinds []Kind
	byID  map[string]Kind
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		kinds: []Kind{},
		byID:  make(map[string]Kind),
	}
}

// DefaultRegistry returns a Registry holding both Cradle configuration kinds.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Kind{ID: ConfidentialKind, New: func() Record { return &ConfidentialConfig{} }})
	r.Register(Kind{ID: NonConfidentialKind, New: func() Record { return &NonConfidentialConfig{} }})
	return r
}

// Register adds a kind to the registry. A later registration with the same id replaces the earlier one.
func (r *Registry) Register(k Kind) {
	if _, ok := r.byID[k.ID]; ok {
		for i := range r.kinds {
			if r.kinds[i].ID == k.ID {
				r.kinds[i] = k
			}
		}
	} else {
		r.kinds = append(r.kinds, k)
	}
	r.byID[k.ID] = k
}

// Lookup returns the kind registered for id.
func (r *Registry) Lookup(id string) (Kind, bool) {
	k, ok := r.byID[id]
	return k, ok
}

// New returns a zero record for the configuration id.
func (r *Registry) New(id string) (Record, error) {
	k, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, id)
	}
	return k.New(), nil
}

// All returns a copy of the registered kinds in registration order.
func (r *Registry) All() []Kind {
	return slices.Clone(r.kinds)
}
