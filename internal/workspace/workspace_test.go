package workspace

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/callnote/internal/apperr"
	"github.com/starford/callnote/internal/compose"
	"github.com/starford/callnote/internal/noteservice"
	"github.com/starford/callnote/internal/split"
	"github.com/starford/callnote/internal/testutil"
)

type notes struct {
	mu   sync.Mutex
	seen []compose.Note
}

func (n *notes) PublishNote(note compose.Note) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen = append(n.seen, note)
}

func testWorkspace(t *testing.T) (*Workspace, *noteservice.Service, *notes) {
	t.Helper()
	svc := noteservice.NewService(testutil.TestStore(t), testutil.TestDB(t))
	pub := &notes{}
	ws := New(svc, WithAssembler(compose.NewAssembler(compose.WithPublisher(pub))))
	return ws, svc, pub
}

func TestApply_RegeneratesAndPublishes(t *testing.T) {
	ws, _, pub := testWorkspace(t)

	v, err := ws.Apply(map[string]any{"agentName": "Jordan", "ban": "42"})
	require.NoError(t, err)
	assert.Equal(t, "PFTS | Jordan\nBAN: 42", v.Note.Text)
	assert.Equal(t, "42", v.FormData["ban"])
	require.Len(t, pub.seen, 1)
	assert.Equal(t, v.Note, pub.seen[0])

	v, err = ws.Apply(map[string]any{"skill": "SHS", "awaAlert": "Weak signal"})
	require.NoError(t, err)
	assert.Contains(t, v.Note.Text, "SHS ALERTS: Weak signal")
	assert.Equal(t, "SHS", v.FormData["skill"])
}

func TestApply_RejectsUnknownFieldsAtomically(t *testing.T) {
	ws, _, pub := testWorkspace(t)

	_, err := ws.Apply(map[string]any{"ban": "42", "bogus": "x"})
	assert.ErrorIs(t, err, apperr.ErrUnknownField)
	assert.Equal(t, "PFTS |", ws.Current().Note.Text)
	assert.Empty(t, pub.seen)
}

func TestCurrent_DoesNotPublish(t *testing.T) {
	ws, _, pub := testWorkspace(t)
	v := ws.Current()
	assert.Equal(t, "PFTS |", v.Note.Text)
	assert.Empty(t, pub.seen)
}

func TestSaveThenUpdate(t *testing.T) {
	ws, svc, _ := testWorkspace(t)
	ctx := context.Background()

	_, err := ws.Apply(map[string]any{"agentName": "Jordan"})
	require.NoError(t, err)
	first, created, err := ws.Save(ctx)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, first.ID, ws.Current().RecordID)

	_, err = ws.Apply(map[string]any{"ban": "42"})
	require.NoError(t, err)
	second, created, err := ws.Save(ctx)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsModified)

	got, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "PFTS | Jordan\nBAN: 42", got.FinalNoteText)
}

func TestSave_ConflictWhenChangedElsewhere(t *testing.T) {
	ws, svc, _ := testWorkspace(t)
	ctx := context.Background()

	_, _ = ws.Apply(map[string]any{"agentName": "Jordan"})
	rec, _, err := ws.Save(ctx)
	require.NoError(t, err)

	_, _, err = svc.Save(ctx, noteservice.SaveInput{ID: rec.ID, FormData: map[string]any{"agentName": "Other"}})
	require.NoError(t, err)

	_, _, err = ws.Save(ctx)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestLoadAndReset(t *testing.T) {
	ws, svc, _ := testWorkspace(t)
	ctx := context.Background()

	rec, _, err := svc.Save(ctx, noteservice.SaveInput{FormData: map[string]any{"agentName": "Jordan", "cid": "C1"}})
	require.NoError(t, err)

	v, err := ws.Load(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, v.RecordID)
	assert.Equal(t, rec.FinalNoteText, v.Note.Text)

	_, err = ws.Load(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	v = ws.Reset()
	assert.Empty(t, v.RecordID)
	assert.Equal(t, "PFTS |", v.Note.Text)
}

func TestPartsAndCopies(t *testing.T) {
	ws, _, _ := testWorkspace(t)

	_, err := ws.Resolution()
	assert.ErrorIs(t, err, apperr.ErrNothingToCopy)

	_, err = ws.Apply(map[string]any{
		"agentName":            "Jordan",
		"ban":                  "42",
		"issueDescription":     "No sync " + strings.Repeat("i", 150),
		"additionalInfo":       strings.Repeat("a", 200),
		"troubleshootingSteps": strings.Repeat("n", 900),
	})
	require.NoError(t, err)

	parts := ws.Parts()
	assert.Equal(t, split.StrategyStandard, parts.Strategy)
	require.Len(t, parts.Parts, 2)
	assert.True(t, strings.HasPrefix(parts.Parts[1].Content, "2/2\nTS STEPS: "))

	res, err := ws.Resolution()
	require.NoError(t, err)
	assert.True(t, res.IssueOmitted)

	text, err := ws.Copilot()
	require.NoError(t, err)
	assert.NotContains(t, text, "BAN")
	assert.True(t, strings.HasPrefix(text, "CX ISSUE: No sync"))
}
