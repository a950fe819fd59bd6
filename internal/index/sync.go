package index

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/callnote/internal/checksum"
	"github.com/starford/callnote/internal/compose"
	"github.com/starford/callnote/internal/models"
	"github.com/starford/callnote/internal/parser"
	"github.com/starford/callnote/internal/storage"
)

// Sync walks the record store and brings the index up to date:
//   - new/changed records are decoded and upserted
//   - records removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List()
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.ID] = struct{}{}

		if checksums[m.ID] == m.Checksum {
			continue
		}

		data, err := store.Read(m.ID)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("id", m.ID), slog.String("error", err.Error()))
			continue
		}
		if err := IndexRecord(db, m.ID, data); err != nil {
			logger.Warn("sync: index failed", slog.String("id", m.ID), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("id", m.ID))
		}
	}

	// Remove stale entries.
	for id := range checksums {
		if _, ok := disk[id]; !ok {
			if err := db.DeleteRecord(id); err != nil {
				logger.Warn("sync: delete failed", slog.String("id", id), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("id", id))
			}
		}
	}

	return nil
}

// IndexRecord decodes a stored record file and upserts it into the DB.
func IndexRecord(db RecordIndex, id string, data []byte) error {
	var rec models.NoteRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("index: decode record %s: %w", id, err)
	}
	if rec.ID != id {
		return fmt.Errorf("index: record file %s holds id %q", id, rec.ID)
	}
	return db.UpsertRecord(RowFromRecord(rec, checksum.Sum(data)))
}

// RowFromRecord derives the index columns of rec from its note text.
func RowFromRecord(rec models.NoteRecord, cs string) RecordRow {
	res := parser.Parse(rec.FinalNoteText)
	return RecordRow{
		ID:         rec.ID,
		Title:      res.Title,
		BAN:        firstLine(res.Field(compose.LabelBAN)),
		Service:    firstLine(res.Field(compose.LabelService)),
		Outcome:    firstLine(res.Field(compose.LabelResolved)),
		CharCount:  compose.Count(rec.FinalNoteText),
		Checksum:   cs,
		IsModified: rec.IsModified,
		NoteText:   rec.FinalNoteText,
		Timestamp:  rec.Timestamp,
	}
}

// Meta converts an indexed row to its list representation.
func (r RecordRow) Meta() models.RecordMeta {
	return models.RecordMeta{
		ID:         r.ID,
		Title:      r.Title,
		BAN:        r.BAN,
		Service:    r.Service,
		Outcome:    r.Outcome,
		CharCount:  r.CharCount,
		Checksum:   r.Checksum,
		Timestamp:  r.Timestamp,
		IsModified: r.IsModified,
	}
}

func firstLine(s string) string {
	s, _, _ = strings.Cut(s, "\n")
	return s
}
