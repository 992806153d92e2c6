package field

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFieldType is returned for field types without a registered
// edit view.
var ErrUnsupportedFieldType = errors.New("unsupported field type")

// Constructor builds a field edit view.
type Constructor func(p Params) Editor

// Registry maps field type identifiers to edit view constructors. It is
// filled at startup and then only read.
type Registry struct {
	constructors map[string]Constructor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// NewDefaultRegistry creates a registry holding the edit views of this
// package.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(RelationListFieldType, NewRelationListEditView)
	r.Register(StringFieldType, NewStringEditView)
	return r
}

// Register maps fieldType to ctor, replacing any previous registration.
func (r *Registry) Register(fieldType string, ctor Constructor) {
	r.constructors[fieldType] = ctor
}

// Get returns the constructor registered for fieldType.
func (r *Registry) Get(fieldType string) (Constructor, error) {
	ctor, ok := r.constructors[fieldType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFieldType, fieldType)
	}
	return ctor, nil
}

// Build creates the edit view of p's field definition. Unsupported field
// types get a read-only view.
func (r *Registry) Build(p Params) Editor {
	ctor, err := r.Get(p.Definition.FieldTypeIdentifier)
	if err != nil {
		return NewUnsupportedEditView(p)
	}
	return ctor(p)
}
