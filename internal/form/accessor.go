package form

import "strings"

// Provider resolves a field to its current value. Unknown or absent fields
// must resolve to the zero Value.
type Provider interface {
	Value(id FieldID) Value
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(id FieldID) Value

// Value implements Provider.
func (f ProviderFunc) Value(id FieldID) Value { return f(id) }

// Empty is a Provider with every field unset.
var Empty Provider = ProviderFunc(func(FieldID) Value { return Value{} })

// Get returns the string rendering of a field, trimmed.
func Get(p Provider, id FieldID) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.Value(id).String())
}

// Flag returns the boolean state of a checkbox field.
func Flag(p Provider, id FieldID) bool {
	if p == nil {
		return false
	}
	return p.Value(id).Bool()
}

// Tri returns the tri-state reading of a yes/no radio group.
func Tri(p Provider, id FieldID) TriState {
	return ParseTri(Get(p, id))
}

// Mode returns the current skill mode.
func Mode(p Provider) SkillMode {
	if Flag(p, SkillToggle) {
		return SkillSHS
	}
	return SkillFFH
}

// Present reports whether the field carries a non-blank value.
func Present(p Provider, id FieldID) bool {
	if p == nil {
		return false
	}
	return !p.Value(id).IsZero()
}
