package split

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/starford/callnote/internal/compose"
	"github.com/starford/callnote/internal/form"
)

func baseSnapshot() form.Snapshot {
	return form.Snapshot{
		"agentName":    "Jordan",
		"ban":          "123456789",
		"customerName": "Sam Lee",
		"cbr":          "6045551234",
		"service":      "Internet",
		"workflow":     "No Internet",
		"resolution":   "Yes",
		"ticketNumber": "T-1",
	}
}

func TestSplit_ShortNoteIsWhole(t *testing.T) {
	snap := baseSnapshot()
	note := compose.Generate(snap)

	got := New().Plan(note, snap)
	assert.Equal(t, StrategyNone, got.Strategy)
	require.Len(t, got.Parts, 1)
	assert.Equal(t, FullNoteLabel, got.Parts[0].Label)
	assert.Equal(t, note, got.Parts[0].Content)
}

func TestSplit_ExactlyAtBudgetIsWhole(t *testing.T) {
	note := strings.Repeat("x", DefaultBudget)
	parts := New().Split(note, form.Snapshot{})
	require.Len(t, parts, 1)
	assert.Equal(t, FullNoteLabel, parts[0].Label)
}

func TestSplit_Standard(t *testing.T) {
	snap := baseSnapshot()
	snap["additionalInfo"] = strings.Repeat("h", 600)
	snap["troubleshootingSteps"] = strings.Repeat("n", 300)
	note := compose.Generate(snap)
	require.Greater(t, compose.Count(note), DefaultBudget)

	got := New().Plan(note, snap)
	assert.Equal(t, StrategyStandard, got.Strategy)
	require.Len(t, got.Parts, 2)
	assert.Equal(t, "Part 1", got.Parts[0].Label)
	assert.True(t, strings.HasPrefix(got.Parts[0].Content, "1/2\n"+compose.AgentTag))
	assert.True(t, strings.HasPrefix(got.Parts[1].Content, "2/2\n"+compose.LabelTSSteps+": "))
	assert.Contains(t, got.Parts[1].Content, compose.LabelResolved+": Yes")
}

func TestSplit_Strategic(t *testing.T) {
	snap := baseSnapshot()
	snap["additionalInfo"] = strings.Repeat("h", 300)
	snap["troubleshootingSteps"] = strings.Repeat("n", 900)
	snap["extraStepsNotes"] = strings.Repeat("t", 200)
	note := compose.Generate(snap)

	got := New().Plan(note, snap)
	assert.Equal(t, StrategyStrategic, got.Strategy)
	require.Len(t, got.Parts, 2)
	assert.True(t, strings.HasPrefix(got.Parts[0].Content, "1/2\n"+compose.AgentTag))
	assert.Contains(t, got.Parts[0].Content, compose.LabelResolved+": Yes")
	assert.Equal(t, "2/2\n"+compose.LabelTSSteps+": "+strings.Repeat("n", 900), got.Parts[1].Content)
}

func TestSplit_ThreeWayWhenNarrativeDominates(t *testing.T) {
	snap := baseSnapshot()
	snap["troubleshootingSteps"] = strings.Repeat("n", 1200)
	g := GroupsOf(snap)
	require.Less(t, compose.Count(g.Head), 500)
	require.Less(t, compose.Count(g.Tail), 500)

	got := New().Plan(compose.Generate(snap), snap)
	assert.Equal(t, StrategyThreeWay, got.Strategy)
	require.Len(t, got.Parts, 3)
	assert.Equal(t, []string{"Part 1", "Part 2", "Part 3"}, labels(got.Parts))
	assert.Equal(t, "1/3\n"+g.Head, got.Parts[0].Content)
	assert.Equal(t, "2/3\n"+g.Narrative, got.Parts[1].Content)
	assert.Equal(t, "3/3\n"+g.Tail, got.Parts[2].Content)

	// The oversized narrative is the accepted irreducible case.
	assert.Greater(t, compose.Count(got.Parts[1].Content), DefaultBudget)
}

func TestSplit_ThreeWayKeepsMarkersWhenNarrativeEmpty(t *testing.T) {
	snap := baseSnapshot()
	snap["additionalInfo"] = strings.Repeat("h", 1000)
	snap["extraStepsNotes"] = strings.Repeat("t", 100)

	got := New().Plan(compose.Generate(snap), snap)
	assert.Equal(t, StrategyThreeWay, got.Strategy)
	require.Len(t, got.Parts, 2)
	assert.True(t, strings.HasPrefix(got.Parts[0].Content, "1/3\n"))
	assert.True(t, strings.HasPrefix(got.Parts[1].Content, "3/3\n"))
	assert.Equal(t, "Part 3", got.Parts[1].Label)
}

func TestSplit_MarkerCountsAgainstBudget(t *testing.T) {
	// Head is exactly the budget, so "1/2\n" pushes it over.
	s := New(WithBudget(20))
	parts := []string{strings.Repeat("a", 20), "b"}
	assert.False(t, s.fits(parts))
	assert.True(t, s.fits([]string{strings.Repeat("a", 16), "b"}))
}

func TestWithBudget_IgnoresNonPositive(t *testing.T) {
	assert.Equal(t, DefaultBudget, New(WithBudget(0)).Budget())
	assert.Equal(t, 500, New(WithBudget(500)).Budget())
}

func labels(parts []Part) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = p.Label
	}
	return out
}

func stripMarker(content string) string {
	_, rest, _ := strings.Cut(content, "\n")
	return rest
}

func lengthyGen() *rapid.Generator[form.Snapshot] {
	return rapid.Custom(func(t *rapid.T) form.Snapshot {
		snap := baseSnapshot()
		snap["additionalInfo"] = strings.Repeat("h", rapid.IntRange(0, 900).Draw(t, "head"))
		snap["troubleshootingSteps"] = strings.Repeat("n", rapid.IntRange(0, 1500).Draw(t, "narrative"))
		snap["extraStepsNotes"] = strings.Repeat("t", rapid.IntRange(0, 900).Draw(t, "tail"))
		return snap
	})
}

func TestSplit_PartsWithinBudget(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		snap := lengthyGen().Draw(t, "snapshot")
		s := New()
		g := GroupsOf(snap)
		for _, p := range s.Split(compose.Generate(snap), snap) {
			if compose.Count(p.Content) <= s.Budget() {
				continue
			}
			body := stripMarker(p.Content)
			if body != g.Head && body != g.Narrative && body != g.Tail {
				t.Fatalf("part %s over budget without being a single group: %d", p.Label, compose.Count(p.Content))
			}
		}
	})
}

func TestSplit_CoversEveryGroupOnce(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		snap := lengthyGen().Draw(t, "snapshot")
		note := compose.Generate(snap)
		parts := New().Split(note, snap)
		if len(parts) == 1 {
			if parts[0].Content != note {
				t.Fatalf("whole note altered")
			}
			return
		}

		var joined []string
		for _, p := range parts {
			joined = append(joined, stripMarker(p.Content))
		}
		all := strings.Join(joined, "\n")

		g := GroupsOf(snap)
		for _, group := range []string{g.Head, g.Narrative, g.Tail} {
			if group == "" {
				continue
			}
			if n := strings.Count(all, group); n != 1 {
				t.Fatalf("group appears %d times", n)
			}
		}
		if compose.Count(all) != compose.Count(note) {
			t.Fatalf("parts hold %d chars, note has %d", compose.Count(all), compose.Count(note))
		}
	})
}
