package noteservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/callnote/internal/apperr"
	"github.com/starford/callnote/internal/compose"
	"github.com/starford/callnote/internal/form"
	"github.com/starford/callnote/internal/models"
	"github.com/starford/callnote/internal/storage"
)

// ImportResult summarises an import.
type ImportResult struct {
	Imported    int      `json:"imported"`
	Replaced    int      `json:"replaced"`
	Regenerated []string `json:"regenerated,omitempty"`
}

// importRecord is one element of an import document before validation.
type importRecord struct {
	ID            string          `json:"id"`
	FinalNoteText string          `json:"finalNoteText"`
	FormData      json.RawMessage `json:"formData"`
	Timestamp     string          `json:"timestamp"`
	IsModified    bool            `json:"isModified"`
}

var (
	isRecordID = validation.By(func(v any) error {
		if id, _ := v.(string); !storage.ValidID(id) {
			return errors.New("must be a record id")
		}
		return nil
	})
	isObject = validation.By(func(v any) error {
		raw, _ := v.(json.RawMessage)
		if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
			return errors.New("must be an object")
		}
		return nil
	})
	isTimestamp = validation.By(func(v any) error {
		if ts, _ := v.(string); ts != "" {
			if _, err := time.Parse(time.RFC3339, ts); err != nil {
				return errors.New("must be an RFC 3339 time")
			}
		}
		return nil
	})
)

// Validate checks the element shape required for import.
func (r *importRecord) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ID, validation.Required, isRecordID),
		validation.Field(&r.FormData, validation.Required, isObject),
		validation.Field(&r.Timestamp, isTimestamp),
	)
}

// Export returns every saved record, newest first.
func (s *Service) Export(ctx context.Context) ([]models.NoteRecord, error) {
	metas, err := s.store.List()
	if err != nil {
		return nil, err
	}
	out := make([]models.NoteRecord, 0, len(metas))
	for _, m := range metas {
		rec, err := s.Get(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, rec.NoteRecord)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Import stores every record of a JSON array. The whole document is
// validated before anything is written: each element needs a non-empty id
// and an object formData. Records replace saved records with the same id.
// Note text that is missing, or that the form data does not produce, is
// regenerated so the record can be split by its sections.
func (s *Service) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	var items []importRecord
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("noteservice: import: %w: expected an array of records: %v", apperr.ErrInvalidInput, err)
	}

	recs := make([]models.NoteRecord, len(items))
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, fmt.Errorf("noteservice: import: record %d: %w: %v", i, apperr.ErrInvalidInput, err)
		}
		rec, err := items[i].toRecord(s.timestamp())
		if err != nil {
			return nil, fmt.Errorf("noteservice: import: record %d: %w: %v", i, apperr.ErrInvalidInput, err)
		}
		recs[i] = rec
	}

	res := &ImportResult{}
	for _, rec := range recs {
		if text := compose.Generate(rec.FormData); rec.FinalNoteText != text {
			rec.FinalNoteText = text
			res.Regenerated = append(res.Regenerated, rec.ID)
		}
		existed, err := s.db.GetChecksum(rec.ID)
		if err != nil {
			return res, err
		}
		if _, err := s.put(ctx, rec); err != nil {
			return res, err
		}
		res.Imported++
		kind := "created"
		if existed != "" {
			res.Replaced++
			kind = "updated"
		}
		s.emit(kind, rec.ID)
	}
	return res, nil
}

func (r *importRecord) toRecord(now time.Time) (models.NoteRecord, error) {
	var snap form.Snapshot
	if err := json.Unmarshal(r.FormData, &snap); err != nil {
		return models.NoteRecord{}, err
	}
	ts := now
	if r.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			return models.NoteRecord{}, err
		}
		ts = parsed.UTC()
	}
	return models.NoteRecord{
		ID:            r.ID,
		FinalNoteText: r.FinalNoteText,
		FormData:      snap,
		Timestamp:     ts,
		IsModified:    r.IsModified,
	}, nil
}
