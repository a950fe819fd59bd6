package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/callnote/internal/apperr"
)

// RecordRow represents a row in the records table.
type RecordRow struct {
	ID         string
	Title      string
	BAN        string
	Service    string
	Outcome    string
	CharCount  int
	Checksum   string
	IsModified bool
	NoteText   string
	Timestamp  time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Snippet   string    `json:"snippet"`
	Timestamp time.Time `json:"timestamp"`
}

// ListQuery selects a page of history, newest first. Empty filters match
// every record.
type ListQuery struct {
	Limit   int
	Offset  int
	BAN     string
	Outcome string
}

const recordColumns = `id, title, ban, service, outcome, char_count, checksum, is_modified, note_text, timestamp`

// UpsertRecord inserts or replaces a record and its FTS entry within a transaction.
func (db *DB) UpsertRecord(r RecordRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title       = excluded.title,
			ban         = excluded.ban,
			service     = excluded.service,
			outcome     = excluded.outcome,
			char_count  = excluded.char_count,
			checksum    = excluded.checksum,
			is_modified = excluded.is_modified,
			note_text   = excluded.note_text,
			timestamp   = excluded.timestamp
	`, r.ID, r.Title, r.BAN, r.Service, r.Outcome, r.CharCount, r.Checksum, r.IsModified, r.NoteText, r.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("index: upsert record: %w", err)
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(tx, r.ID, r.Title, r.NoteText); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteRecord removes a record and its FTS entry.
func (db *DB) DeleteRecord(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, id)
	if _, err := tx.Exec(`DELETE FROM records WHERE id = ?`, id); err != nil {
		return fmt.Errorf("index: delete record: %w", err)
	}

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a record, or empty string if not found.
func (db *DB) GetChecksum(id string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM records WHERE id = ?`, id).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// GetRecord returns one indexed record.
func (db *DB) GetRecord(id string) (*RecordRow, error) {
	row := db.conn.QueryRow(`SELECT `+recordColumns+` FROM records WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get record: %w", err)
	}
	return r, nil
}

// ListRecords returns one page of records ordered by timestamp descending,
// and the total number of records matching the filters.
func (db *DB) ListRecords(q ListQuery) ([]RecordRow, int, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	where := `WHERE (? = '' OR ban = ?) AND (? = '' OR outcome = ?)`
	args := []any{q.BAN, q.BAN, q.Outcome, q.Outcome}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM records `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count records: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT `+recordColumns+`
		FROM records `+where+`
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?
	`, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list records: %w", err)
	}
	defer rows.Close()

	var out []RecordRow
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("index: scan record: %w", err)
		}
		out = append(out, *r)
	}
	return out, total, rows.Err()
}

// AllChecksums returns the checksum of every indexed record keyed by id.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT id, checksum FROM records`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var id, cs string
		if err := rows.Scan(&id, &cs); err != nil {
			return nil, err
		}
		out[id] = cs
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*RecordRow, error) {
	var r RecordRow
	err := s.Scan(&r.ID, &r.Title, &r.BAN, &r.Service, &r.Outcome, &r.CharCount,
		&r.Checksum, &r.IsModified, &r.NoteText, &r.Timestamp)
	if err != nil {
		return nil, err
	}
	r.Timestamp = r.Timestamp.UTC()
	return &r, nil
}
