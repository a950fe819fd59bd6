package form

import (
	"strings"
)

// Kind is the shape of a field's value.
type Kind int

const (
	KindText Kind = iota
	KindBool
	KindChoice
	KindChoices
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindChoice:
		return "choice"
	case KindChoices:
		return "choices"
	default:
		return "text"
	}
}

// Value is the current value of one field. The zero Value is empty text.
type Value struct {
	kind    Kind
	text    string
	flag    bool
	choices []string
}

// Text returns a free-text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Bool returns a checkbox value.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Choice returns a select or radio-group value. Empty means nothing selected.
func Choice(s string) Value { return Value{kind: KindChoice, text: s} }

// Choices returns a multi-select value. Empty entries are dropped.
func Choices(items ...string) Value {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it != "" {
			out = append(out, it)
		}
	}
	return Value{kind: KindChoices, choices: out}
}

// Kind reports the value's kind.
func (v Value) Kind() Kind { return v.kind }

// String renders the value as note text. Booleans render empty; multi-selects
// are joined with ", ".
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return ""
	case KindChoices:
		return strings.Join(v.choices, ", ")
	default:
		return v.text
	}
}

// Bool reports whether the value is a set checkbox. Text "true" counts as set.
func (v Value) Bool() bool {
	switch v.kind {
	case KindBool:
		return v.flag
	case KindText, KindChoice:
		return strings.EqualFold(strings.TrimSpace(v.text), "true")
	default:
		return false
	}
}

// List returns the selected items of a multi-select, or the single non-empty
// text/choice as a one-element list.
func (v Value) List() []string {
	switch v.kind {
	case KindChoices:
		return append([]string(nil), v.choices...)
	case KindBool:
		return nil
	default:
		if v.text == "" {
			return nil
		}
		return []string{v.text}
	}
}

// IsZero reports whether the value carries no data.
func (v Value) IsZero() bool {
	switch v.kind {
	case KindBool:
		return !v.flag
	case KindChoices:
		return len(v.choices) == 0
	default:
		return strings.TrimSpace(v.text) == ""
	}
}

// raw converts the value to its snapshot representation.
func (v Value) raw() any {
	switch v.kind {
	case KindBool:
		return v.flag
	case KindChoices:
		return append([]string{}, v.choices...)
	default:
		return v.text
	}
}

// TriState is a yes/no radio group that may be left unanswered.
type TriState int

const (
	TriUnset TriState = iota
	TriYes
	TriNo
)

// ParseTri maps exactly "yes" and "no" to TriYes and TriNo; anything else,
// including other casings, is TriUnset.
func ParseTri(s string) TriState {
	switch s {
	case "yes":
		return TriYes
	case "no":
		return TriNo
	default:
		return TriUnset
	}
}

// SkillMode is the agent's operating mode.
type SkillMode int

const (
	// SkillFFH is the default fixed/home-internet mode.
	SkillFFH SkillMode = iota
	// SkillSHS is the smart-home-security mode.
	SkillSHS
)

// Skill names as stored in snapshots.
const (
	SkillNameFFH = "FFH"
	SkillNameSHS = "SHS"
)

func (m SkillMode) String() string {
	if m == SkillSHS {
		return SkillNameSHS
	}
	return SkillNameFFH
}
