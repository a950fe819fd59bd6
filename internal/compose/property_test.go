package compose

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/starford/callnote/internal/form"
)

// snapshotGen draws snapshots over the known fields, including multi-line
// free text with blank runs and the option values the builders branch on.
func snapshotGen() *rapid.Generator[form.Snapshot] {
	ids := form.Known()
	text := rapid.OneOf(
		rapid.Just(""),
		rapid.StringMatching(`[A-Za-z0-9 ]{1,20}`),
		rapid.StringMatching(`[a-z]{1,8}(\n[ \t]*){0,4}[a-z]{1,8}`),
		rapid.SampledFrom([]string{"yes", "no", form.CallerConsultation, form.VerificationSent, "2024-03-05", "8am - 9am"}),
		rapid.SampledFrom(form.Outcomes()),
		rapid.SampledFrom([]string{"Telus Email", "MyTelus", "HomePhone", "HomePhone VoIP"}),
	)
	return rapid.Custom(func(t *rapid.T) form.Snapshot {
		snap := form.Snapshot{}
		for _, id := range ids {
			if !rapid.Bool().Draw(t, "set_"+string(id)) {
				continue
			}
			if kind, _ := form.KindOf(id); kind == form.KindBool {
				snap[string(id)] = rapid.Bool().Draw(t, string(id))
				continue
			}
			snap[string(id)] = text.Draw(t, string(id))
		}
		snap["skill"] = rapid.SampledFrom([]string{form.SkillNameFFH, form.SkillNameSHS}).Draw(t, "skill")
		return snap
	})
}

func TestGenerate_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		snap := snapshotGen().Draw(t, "snapshot")
		first := Generate(snap)
		second := Generate(snap.Clone())
		if first != second {
			t.Fatalf("regeneration differs:\n%q\n%q", first, second)
		}
	})
}

func TestGenerate_NoBlankRuns(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		note := Generate(snapshotGen().Draw(t, "snapshot"))
		if strings.Contains(note, "\n\n\n") {
			t.Fatalf("note contains a blank-line run: %q", note)
		}
		if note != strings.TrimSpace(note) {
			t.Fatalf("note not trimmed: %q", note)
		}
		if !strings.HasPrefix(note, AgentTag+" |") {
			t.Fatalf("note does not start with the agent tag: %q", note)
		}
	})
}

func TestGenerate_StateMatchesSnapshot(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		snap := snapshotGen().Draw(t, "snapshot")
		s := form.NewState()
		s.Load(snap)
		if got, want := Generate(s), Generate(snap); got != want {
			t.Fatalf("live state renders differently:\n%q\n%q", got, want)
		}
	})
}
