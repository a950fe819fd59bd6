// Package noteservice coordinates the record store, the history index and the
// note composition engine.
package noteservice

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/callnote/internal/apperr"
	"github.com/starford/callnote/internal/checksum"
	"github.com/starford/callnote/internal/compose"
	"github.com/starford/callnote/internal/extract"
	"github.com/starford/callnote/internal/form"
	"github.com/starford/callnote/internal/index"
	"github.com/starford/callnote/internal/models"
	"github.com/starford/callnote/internal/split"
	"github.com/starford/callnote/internal/storage"
)

// RecordDetail is the full representation of a saved note.
type RecordDetail struct {
	models.NoteRecord
	Checksum      string   `json:"checksum"`
	CharCount     int      `json:"charCount"`
	OverLimit     bool     `json:"overLimit"`
	UnknownFields []string `json:"unknownFields,omitempty"`
}

// SaveInput is a request to create or update a record. An empty ID creates a
// new record. IfMatch, when set, must name the stored record's checksum,
// quoted or bare.
type SaveInput struct {
	ID       string
	FormData form.Snapshot
	IfMatch  string
}

// Notifier is told about every record change.
type Notifier func(kind, id string)

// Option configures a Service.
type Option func(*Service)

// WithAssembler sets the assembler used to compose notes.
func WithAssembler(a *compose.Assembler) Option {
	return func(s *Service) { s.assembler = a }
}

// WithSplitter sets the splitter used for split requests.
func WithSplitter(sp *split.Splitter) Option {
	return func(s *Service) { s.splitter = sp }
}

// WithExtractor sets the extractor used for copy requests.
func WithExtractor(e *extract.Extractor) Option {
	return func(s *Service) { s.extractor = e }
}

// WithNotifier sets the record change notifier.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notify = n }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service coordinates storage and index operations.
type Service struct {
	store     storage.Provider
	db        index.RecordIndex
	assembler *compose.Assembler
	splitter  *split.Splitter
	extractor *extract.Extractor
	notify    Notifier
	now       func() time.Time
}

// NewService creates a new note service.
func NewService(store storage.Provider, db index.RecordIndex, opts ...Option) *Service {
	s := &Service{
		store:     store,
		db:        db,
		assembler: compose.NewAssembler(),
		splitter:  split.New(),
		extractor: extract.New(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compose renders the note for snap with its length feedback and checklist.
func (s *Service) Compose(_ context.Context, snap form.Snapshot) compose.Note {
	return s.assembler.Evaluate(snap)
}

// Threshold returns the note length warning threshold.
func (s *Service) Threshold() int { return s.assembler.Threshold() }

// Split partitions noteText using the sections of snap. An empty noteText is
// composed from snap first. Parts are built from the sections of snap, so a
// noteText that snap does not produce is rejected rather than split lossily.
func (s *Service) Split(_ context.Context, noteText string, snap form.Snapshot) (split.Result, error) {
	generated := compose.Generate(snap)
	if noteText == "" {
		noteText = generated
	}
	if strings.TrimSpace(noteText) != generated {
		return split.Result{}, fmt.Errorf("noteservice: split: %w: note text does not match form data", apperr.ErrInvalidInput)
	}
	return s.splitter.Plan(generated, snap), nil
}

// SplitRecord partitions a saved note, regrouping sections from its form data.
func (s *Service) SplitRecord(ctx context.Context, id string) (split.Result, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return split.Result{}, err
	}
	if rec.FinalNoteText != compose.Generate(rec.FormData) {
		return split.Result{}, fmt.Errorf("noteservice: split %s: %w: note text does not match form data", id, apperr.ErrInvalidInput)
	}
	return s.splitter.Plan(rec.FinalNoteText, rec.FormData), nil
}

// Resolution builds the issue and troubleshooting copy text for snap.
func (s *Service) Resolution(_ context.Context, snap form.Snapshot) (extract.ResolutionCopy, error) {
	return s.extractor.Resolution(snap)
}

// Copilot strips identifying lines from noteText.
func (s *Service) Copilot(_ context.Context, noteText string) (string, error) {
	return s.extractor.Copilot(noteText)
}

// Save creates or updates a record. The note text is always regenerated from
// the form data. Updates keep the original id and timestamp and mark the
// record modified. It reports whether a record was created.
func (s *Service) Save(ctx context.Context, in SaveInput) (*RecordDetail, bool, error) {
	if in.FormData == nil {
		in.FormData = form.Snapshot{}
	}
	rec := models.NoteRecord{
		ID:            in.ID,
		FinalNoteText: compose.Generate(in.FormData),
		FormData:      in.FormData.Clone(),
	}

	created := in.ID == ""
	if created {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, false, fmt.Errorf("noteservice: new id: %w", err)
		}
		rec.ID = id.String()
		rec.Timestamp = s.timestamp()
	} else {
		prev, err := s.store.Read(in.ID)
		if err != nil {
			return nil, false, err
		}
		if !checksum.Matches(in.IfMatch, checksum.Sum(prev)) {
			return nil, false, apperr.ErrConflict
		}
		var old models.NoteRecord
		if err := json.Unmarshal(prev, &old); err != nil {
			return nil, false, fmt.Errorf("noteservice: decode %s: %w", in.ID, err)
		}
		rec.Timestamp = old.Timestamp
		rec.IsModified = true
	}

	detail, err := s.put(ctx, rec)
	if err != nil {
		return nil, false, err
	}
	kind := "updated"
	if created {
		kind = "created"
	}
	s.emit(kind, rec.ID)
	return detail, created, nil
}

// Get reads a record from storage.
func (s *Service) Get(_ context.Context, id string) (*RecordDetail, error) {
	data, err := s.store.Read(id)
	if err != nil {
		return nil, err
	}
	var rec models.NoteRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("noteservice: decode %s: %w", id, err)
	}
	return s.detail(rec, data), nil
}

// Delete removes a record from storage and index.
func (s *Service) Delete(_ context.Context, id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	if err := s.db.DeleteRecord(id); err != nil {
		return err
	}
	s.emit("deleted", id)
	return nil
}

// List returns one page of history, newest first, and the total count.
func (s *Service) List(_ context.Context, q index.ListQuery) ([]models.RecordMeta, int, error) {
	rows, total, err := s.db.ListRecords(q)
	if err != nil {
		return nil, 0, err
	}
	items := make([]models.RecordMeta, len(rows))
	for i, r := range rows {
		items[i] = r.Meta()
	}
	return items, total, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	res, err := s.db.Search(query, limit)
	return nonNilSlice(res), err
}

// put writes rec and indexes it.
func (s *Service) put(_ context.Context, rec models.NoteRecord) (*RecordDetail, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("noteservice: encode %s: %w", rec.ID, err)
	}
	if err := s.store.Write(rec.ID, data); err != nil {
		return nil, err
	}
	if err := s.db.UpsertRecord(index.RowFromRecord(rec, checksum.Sum(data))); err != nil {
		return nil, err
	}
	return s.detail(rec, data), nil
}

func (s *Service) detail(rec models.NoteRecord, data []byte) *RecordDetail {
	n := compose.Count(rec.FinalNoteText)
	return &RecordDetail{
		NoteRecord:    rec,
		Checksum:      checksum.Sum(data),
		CharCount:     n,
		OverLimit:     n > s.assembler.Threshold(),
		UnknownFields: rec.FormData.Unknown(),
	}
}

func (s *Service) emit(kind, id string) {
	if s.notify != nil {
		s.notify(kind, id)
	}
}

// timestamp returns the current time at millisecond precision in UTC.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
