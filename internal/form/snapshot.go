package form

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Snapshot is the raw field mapping captured when a note is saved. Values are
// strings, booleans or string arrays; the skill mode is stored under "skill".
type Snapshot map[string]any

// Value implements Provider.
func (s Snapshot) Value(id FieldID) Value {
	if id == SkillToggle {
		name, _ := s[string(Skill)].(string)
		return Bool(name == SkillNameSHS)
	}
	raw, ok := s[string(id)]
	if !ok {
		return Value{}
	}
	return fromRaw(id, raw)
}

// Unknown returns the keys that are not known field identifiers, sorted.
func (s Snapshot) Unknown() []string {
	var out []string
	for k := range s {
		if k == string(Skill) {
			continue
		}
		if _, ok := kinds[FieldID(k)]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Clone returns a shallow copy with list values copied.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		switch t := v.(type) {
		case []string:
			out[k] = append([]string(nil), t...)
		case []any:
			out[k] = append([]any(nil), t...)
		default:
			out[k] = v
		}
	}
	return out
}

// fromRaw converts a decoded JSON/YAML value into a Value. Lists become
// multi-selects; the declared kind of id picks between text and choice.
func fromRaw(id FieldID, raw any) Value {
	kind := kinds[id]
	str := func(s string) Value {
		if kind == KindChoice {
			return Choice(s)
		}
		return Text(s)
	}
	switch v := raw.(type) {
	case nil:
		return Value{}
	case string:
		return str(v)
	case bool:
		return Bool(v)
	case float64:
		return str(strconv.FormatFloat(v, 'f', -1, 64))
	case int:
		return str(strconv.Itoa(v))
	case int64:
		return str(strconv.FormatInt(v, 10))
	case json.Number:
		return str(v.String())
	case []string:
		return Choices(v...)
	case []any:
		items := make([]string, 0, len(v))
		for _, it := range v {
			if s, ok := it.(string); ok {
				items = append(items, s)
			} else if it != nil {
				items = append(items, fmt.Sprint(it))
			}
		}
		return Choices(items...)
	default:
		return str(fmt.Sprint(v))
	}
}

// DecodeSnapshot parses a snapshot from JSON or YAML. format is a file
// extension such as ".json" or ".yaml"; anything that is not YAML is JSON.
func DecodeSnapshot(data []byte, format string) (Snapshot, error) {
	var s Snapshot
	switch strings.ToLower(format) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("form: decode yaml snapshot: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("form: decode json snapshot: %w", err)
		}
	}
	if s == nil {
		s = Snapshot{}
	}
	return s, nil
}

// ReadSnapshotFile loads a snapshot file, picking the decoder by extension.
func ReadSnapshotFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("form: read snapshot %s: %w", path, err)
	}
	return DecodeSnapshot(data, filepath.Ext(path))
}
