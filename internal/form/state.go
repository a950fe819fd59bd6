package form

import (
	"fmt"
	"strings"

	"github.com/starford/callnote/internal/apperr"
)

// State is the live, mutable form. It is not safe for concurrent use; callers
// serialise access.
type State struct {
	values map[FieldID]Value
}

// NewState returns an empty form.
func NewState() *State {
	return &State{values: make(map[FieldID]Value)}
}

// Value implements Provider.
func (s *State) Value(id FieldID) Value {
	return s.values[id]
}

// Set stores v for id. Text and choice values are trimmed; a value whose kind
// does not match the field's declared kind is coerced.
func (s *State) Set(id FieldID, v Value) error {
	kind, ok := kinds[id]
	if !ok {
		return fmt.Errorf("form: %w %q", apperr.ErrUnknownField, id)
	}
	s.values[id] = coerce(kind, v)
	return nil
}

// SetRaw stores a decoded JSON value for id, as sent by a client.
func (s *State) SetRaw(id FieldID, raw any) error {
	if id == Skill {
		name, _ := raw.(string)
		return s.Set(SkillToggle, Bool(name == SkillNameSHS))
	}
	if _, ok := kinds[id]; !ok {
		return fmt.Errorf("form: %w %q", apperr.ErrUnknownField, id)
	}
	return s.Set(id, fromRaw(id, raw))
}

// Clear resets every field.
func (s *State) Clear() {
	s.values = make(map[FieldID]Value)
}

// Load replaces the form contents with a snapshot's fields.
func (s *State) Load(snap Snapshot) {
	s.Clear()
	for id := range kinds {
		v := snap.Value(id)
		if v.IsZero() {
			continue
		}
		s.values[id] = coerce(kinds[id], v)
	}
}

// Snapshot captures the non-empty fields. The skill toggle is recorded as
// the skill name.
func (s *State) Snapshot() Snapshot {
	out := make(Snapshot, len(s.values)+1)
	for id, v := range s.values {
		if id == SkillToggle {
			continue
		}
		if v.IsZero() {
			continue
		}
		out[string(id)] = v.raw()
	}
	out[string(Skill)] = Mode(s).String()
	return out
}

func coerce(kind Kind, v Value) Value {
	switch kind {
	case KindBool:
		return Bool(v.Bool())
	case KindChoices:
		items := v.List()
		for i := range items {
			items[i] = strings.TrimSpace(items[i])
		}
		return Choices(items...)
	case KindChoice:
		return Choice(strings.TrimSpace(v.String()))
	default:
		return Text(strings.TrimSpace(v.String()))
	}
}
