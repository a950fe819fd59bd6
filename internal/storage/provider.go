// Package storage defines the note record file-system abstraction.
package storage

import "github.com/starford/callnote/internal/models"

// Provider is the interface for record file operations. Records are
// addressed by id.
type Provider interface {
	// List returns metadata for every stored record.
	List() ([]models.FileMeta, error)
	// Read returns the raw bytes of the record with id.
	Read(id string) ([]byte, error)
	// Write atomically writes content as the record with id.
	Write(id string, content []byte) error
	// Delete removes the record with id.
	Delete(id string) error
	// Root returns the directory records are stored in.
	Root() string
}
