package schema

import (
	"fmt"
	"sort"
)

// DuplicateTypeError reports a second registration for an already claimed
// message type. It only occurs during seeding and indicates a misconfigured
// protocol definition.
type DuplicateTypeError struct {
	Type MessageType
	Name string
}

func (e DuplicateTypeError) Error() string {
	return fmt.Sprintf("registry: type 0x%02X already registered (adding %q)", uint16(e.Type), e.Name)
}

// Registry maps message types to their payload schemas. Seed it once at
// startup; after seeding it must not be mutated, which makes concurrent
// lookups from multiple decode streams safe without locking.
type Registry struct {
	schemas map[MessageType]MessageSchema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[MessageType]MessageSchema)}
}

// Register adds a schema, failing with DuplicateTypeError when the type
// identifier is already claimed.
func (r *Registry) Register(s MessageSchema) error {
	if _, ok := r.schemas[s.Type]; ok {
		return DuplicateTypeError{Type: s.Type, Name: s.Name}
	}
	r.schemas[s.Type] = s
	return nil
}

// MustRegister is Register for static profile seeding.
func (r *Registry) MustRegister(s MessageSchema) {
	if err := r.Register(s); err != nil {
		panic(err)
	}
}

// Lookup returns the schema for a type identifier. A missing entry is not
// an error: callers fall back to a raw message for forward compatibility.
func (r *Registry) Lookup(t MessageType) (MessageSchema, bool) {
	s, ok := r.schemas[t]
	return s, ok
}

// Types lists the registered identifiers in ascending order.
func (r *Registry) Types() []MessageType {
	out := make([]MessageType, 0, len(r.schemas))
	for t := range r.schemas {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len reports the number of registered schemas.
func (r *Registry) Len() int { return len(r.schemas) }
