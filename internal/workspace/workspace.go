// Package workspace holds the live form an agent is filling in. Every change
// regenerates the note and publishes it.
package workspace

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/starford/callnote/internal/apperr"
	"github.com/starford/callnote/internal/compose"
	"github.com/starford/callnote/internal/extract"
	"github.com/starford/callnote/internal/form"
	"github.com/starford/callnote/internal/noteservice"
	"github.com/starford/callnote/internal/split"
)

// Records loads and saves note records.
type Records interface {
	Get(ctx context.Context, id string) (*noteservice.RecordDetail, error)
	Save(ctx context.Context, in noteservice.SaveInput) (*noteservice.RecordDetail, bool, error)
}

// View is the current form and its note.
type View struct {
	RecordID string        `json:"recordId,omitempty"`
	FormData form.Snapshot `json:"formData"`
	Note     compose.Note  `json:"note"`
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithAssembler sets the assembler; its publisher receives every
// regenerated note.
func WithAssembler(a *compose.Assembler) Option {
	return func(w *Workspace) { w.assembler = a }
}

// WithSplitter sets the splitter used for Parts.
func WithSplitter(s *split.Splitter) Option {
	return func(w *Workspace) { w.splitter = s }
}

// WithExtractor sets the extractor used for copy texts.
func WithExtractor(e *extract.Extractor) Option {
	return func(w *Workspace) { w.extractor = e }
}

// Workspace is safe for concurrent use.
type Workspace struct {
	records   Records
	assembler *compose.Assembler
	splitter  *split.Splitter
	extractor *extract.Extractor

	mu       sync.Mutex
	state    *form.State
	recordID string
	checksum string
}

// New returns an empty workspace.
func New(records Records, opts ...Option) *Workspace {
	w := &Workspace{
		records:   records,
		assembler: compose.NewAssembler(),
		splitter:  split.New(),
		extractor: extract.New(),
		state:     form.NewState(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Current returns the form and its note without publishing.
func (w *Workspace) Current() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view(w.assembler.Evaluate(w.state))
}

// Apply sets the given fields, keyed by field id, then regenerates the note.
// Nothing is applied when any key is not a known field.
func (w *Workspace) Apply(fields map[string]any) (View, error) {
	var unknown []string
	for key := range fields {
		if key == string(form.Skill) {
			continue
		}
		if _, ok := form.KindOf(form.FieldID(key)); !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return View{}, fmt.Errorf("workspace: %w: %v", apperr.ErrUnknownField, unknown)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for key, raw := range fields {
		if err := w.state.SetRaw(form.FieldID(key), raw); err != nil {
			return View{}, fmt.Errorf("workspace: %w", err)
		}
	}
	return w.regenerate(), nil
}

// Reset clears the form and detaches it from any loaded record.
func (w *Workspace) Reset() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Clear()
	w.recordID, w.checksum = "", ""
	return w.regenerate()
}

// Load replaces the form with a saved record's form data for editing.
func (w *Workspace) Load(ctx context.Context, id string) (View, error) {
	rec, err := w.records.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Load(rec.FormData)
	w.recordID, w.checksum = rec.ID, rec.Checksum
	return w.regenerate(), nil
}

// Save stores the form. The first save creates a record; later saves update
// it, failing with apperr.ErrConflict when it changed elsewhere since.
func (w *Workspace) Save(ctx context.Context) (*noteservice.RecordDetail, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	rec, created, err := w.records.Save(ctx, noteservice.SaveInput{
		ID:       w.recordID,
		FormData: w.state.Snapshot(),
		IfMatch:  w.checksum,
	})
	if err != nil {
		return nil, false, err
	}
	w.recordID, w.checksum = rec.ID, rec.Checksum
	return rec, created, nil
}

// Parts splits the current note.
func (w *Workspace) Parts() split.Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.splitter.Plan(compose.Generate(w.state), w.state)
}

// Resolution builds the issue and troubleshooting copy text.
func (w *Workspace) Resolution() (extract.ResolutionCopy, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.extractor.Resolution(w.state)
}

// Copilot returns the current note without identifying lines.
func (w *Workspace) Copilot() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.extractor.Copilot(compose.Generate(w.state))
}

// regenerate must be called with mu held.
func (w *Workspace) regenerate() View {
	return w.view(w.assembler.Generate(w.state))
}

func (w *Workspace) view(n compose.Note) View {
	return View{
		RecordID: w.recordID,
		FormData: w.state.Snapshot(),
		Note:     n,
	}
}
