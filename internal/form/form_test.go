package form

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/callnote/internal/apperr"
)

func TestSnapshot_SkillToggleDerivedFromSkill(t *testing.T) {
	assert.True(t, Snapshot{"skill": "SHS"}.Value(SkillToggle).Bool())
	assert.False(t, Snapshot{"skill": "FFH"}.Value(SkillToggle).Bool())
	assert.False(t, Snapshot{}.Value(SkillToggle).Bool())
	// A stray skillToggle key is ignored in favour of skill.
	assert.False(t, Snapshot{"skillToggle": true}.Value(SkillToggle).Bool())
}

func TestSnapshot_AbsentFieldsAreEmpty(t *testing.T) {
	snap := Snapshot{"ban": "123"}
	assert.Equal(t, "123", Get(snap, BAN))
	assert.Equal(t, "", Get(snap, CID))
	assert.False(t, Flag(snap, TransferToggle))
	assert.Equal(t, TriUnset, Tri(snap, Outage))
}

func TestSnapshot_DecodedJSONTypes(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{
		"ban": 123456,
		"transferToggle": true,
		"extraSteps": ["GO", "SEND"],
		"outage": "yes",
		"cid": null
	}`), ".json")
	require.NoError(t, err)

	assert.Equal(t, "123456", Get(snap, BAN))
	assert.True(t, Flag(snap, TransferToggle))
	assert.Equal(t, "GO, SEND", Get(snap, ExtraSteps))
	assert.Equal(t, []string{"GO", "SEND"}, snap.Value(ExtraSteps).List())
	assert.Equal(t, TriYes, Tri(snap, Outage))
	assert.Equal(t, "", Get(snap, CID))
}

func TestDecodeSnapshot_YAML(t *testing.T) {
	snap, err := DecodeSnapshot([]byte("ban: \"42\"\nskill: SHS\nextraSteps:\n  - GO\n"), ".yaml")
	require.NoError(t, err)
	assert.Equal(t, "42", Get(snap, BAN))
	assert.Equal(t, SkillSHS, Mode(snap))
	assert.Equal(t, "GO", Get(snap, ExtraSteps))
}

func TestDecodeSnapshot_Invalid(t *testing.T) {
	_, err := DecodeSnapshot([]byte(`[1,2]`), ".json")
	assert.Error(t, err)
}

func TestSnapshot_Unknown(t *testing.T) {
	snap := Snapshot{"ban": "1", "skill": "FFH", "legacyField": "x", "another": 1}
	assert.Equal(t, []string{"another", "legacyField"}, snap.Unknown())
}

func TestTriState(t *testing.T) {
	cases := map[string]TriState{
		"yes":   TriYes,
		"no":    TriNo,
		"YES":   TriUnset,
		" no ":  TriUnset,
		"No":    TriUnset,
		"":      TriUnset,
		"maybe": TriUnset,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseTri(in), "input %q", in)
	}
}

func TestState_SetTrimsAndRejectsUnknown(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Set(BAN, Text("  987  ")))
	assert.Equal(t, "987", s.Value(BAN).String())

	err := s.Set(FieldID("nope"), Text("x"))
	assert.ErrorIs(t, err, apperr.ErrUnknownField)
}

func TestState_SetRawCoercesToDeclaredKind(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SetRaw(TransferToggle, true))
	require.NoError(t, s.SetRaw(Caller, "Consultation"))
	require.NoError(t, s.SetRaw(ExtraSteps, []any{"GO", " SEND "}))
	require.NoError(t, s.SetRaw(Skill, "SHS"))

	assert.Equal(t, KindBool, s.Value(TransferToggle).Kind())
	assert.Equal(t, KindChoice, s.Value(Caller).Kind())
	assert.Equal(t, []string{"GO", "SEND"}, s.Value(ExtraSteps).List())
	assert.Equal(t, SkillSHS, Mode(s))
}

func TestState_SnapshotRoundTrip(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Set(BAN, Text("123")))
	require.NoError(t, s.Set(SkillToggle, Bool(true)))
	require.NoError(t, s.Set(TransferToggle, Bool(true)))
	require.NoError(t, s.Set(ExtraSteps, Choices("GO")))
	require.NoError(t, s.Set(CID, Text("")))

	snap := s.Snapshot()
	assert.Equal(t, "SHS", snap["skill"])
	assert.NotContains(t, snap, "cid")
	assert.NotContains(t, snap, "skillToggle")

	// Survives a JSON round trip the way records are persisted.
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	decoded, err := DecodeSnapshot(data, ".json")
	require.NoError(t, err)

	for _, id := range Known() {
		assert.Equal(t, Get(s, id), Get(decoded, id), "field %s", id)
		assert.Equal(t, Flag(s, id), Flag(decoded, id), "field %s", id)
	}

	restored := NewState()
	restored.Load(decoded)
	assert.Equal(t, SkillSHS, Mode(restored))
	assert.Equal(t, "123", Get(restored, BAN))
}

func TestKnown_IncludesEveryDeclaredField(t *testing.T) {
	ids := Known()
	assert.Len(t, ids, len(kinds))
	_, ok := KindOf(TroubleshootingSteps)
	assert.True(t, ok)
	_, ok = KindOf(Skill)
	assert.False(t, ok, "skill is a snapshot key, not a form field")
}

func TestNilProvider(t *testing.T) {
	assert.Equal(t, "", Get(nil, BAN))
	assert.False(t, Flag(nil, TransferToggle))
	assert.Equal(t, SkillFFH, Mode(nil))
	assert.False(t, Present(Empty, BAN))
}
