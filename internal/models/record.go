// Package models defines the persisted types for callnote.
package models

import (
	"time"

	"github.com/starford/callnote/internal/form"
)

// NoteRecord is a saved note together with the form values it was built from.
type NoteRecord struct {
	ID            string        `json:"id"`
	FinalNoteText string        `json:"finalNoteText"`
	FormData      form.Snapshot `json:"formData"`
	Timestamp     time.Time     `json:"timestamp"`
	IsModified    bool          `json:"isModified"`
}

// RecordMeta is a lightweight representation returned by list operations.
type RecordMeta struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	BAN        string    `json:"ban,omitempty"`
	Service    string    `json:"service,omitempty"`
	Outcome    string    `json:"outcome,omitempty"`
	CharCount  int       `json:"charCount"`
	Checksum   string    `json:"checksum"`
	Timestamp  time.Time `json:"timestamp"`
	IsModified bool      `json:"isModified"`
}

// FileMeta describes one stored record file.
type FileMeta struct {
	ID        string
	Checksum  string
	UpdatedAt time.Time
}
