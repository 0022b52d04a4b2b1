// Package model is the boundary between the validation engine and a building
// model. The engine only ever sees entities through the Entity interface and
// enumerates them through Model, so any graph source can be plugged in.
package model

// Entity is a typed node of the entity graph.
//
// Attribute values are an Entity, a scalar (string, bool, int, float64, nil)
// or a []any collection of such values.
type Entity interface {
	Typed
	AttributeHolder
	// Attribute returns the value of name and whether the attribute exists.
	Attribute(name string) (any, bool)
}

// Typed is implemented by values that carry a type tag.
type Typed interface {
	TypeTag() string
}

// AttributeHolder is implemented by values that can report attribute presence.
type AttributeHolder interface {
	HasAttribute(name string) bool
}

// Model enumerates entities by type tag.
type Model interface {
	// ByType returns the entities whose type tag is typeName, in the model's
	// native order. Unknown types yield an empty slice.
	ByType(typeName string) []Entity
}

// Name returns the Name attribute of e as a string, if present.
func Name(e Entity) (string, bool) {
	return stringAttribute(e, "Name")
}

// GlobalID returns the GlobalId attribute of e as a string, if present.
func GlobalID(e Entity) (string, bool) {
	return stringAttribute(e, "GlobalId")
}

func stringAttribute(e Entity, name string) (string, bool) {
	v, ok := e.Attribute(name)
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
