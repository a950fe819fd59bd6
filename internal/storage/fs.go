package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/starford/callnote/internal/apperr"
	"github.com/starford/callnote/internal/checksum"
	"github.com/starford/callnote/internal/models"
)

// Ext is the file extension of stored records.
const Ext = ".json"

var idRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,127}$`)

// ValidID reports whether id can name a record file.
func ValidID(id string) bool {
	return idRe.MatchString(id)
}

// IDFromFile returns the record id for a file name, and false for files that
// are not records.
func IDFromFile(name string) (string, bool) {
	base := filepath.Base(name)
	id, ok := strings.CutSuffix(base, Ext)
	if !ok || !ValidID(id) {
		return "", false
	}
	return id, true
}

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to record directory
}

// NewFS creates a new FS provider rooted at the given directory, creating it
// when missing.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute record directory.
func (f *FS) Root() string { return f.root }

// safePath maps an id to its file, rejecting ids that could escape the root.
func (f *FS) safePath(id string) (string, error) {
	if !ValidID(id) {
		return "", fmt.Errorf("storage: %w: record id %q", apperr.ErrInvalidInput, id)
	}
	return filepath.Join(f.root, id+Ext), nil
}

// List returns metadata for every record file in the root.
func (f *FS) List() ([]models.FileMeta, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	var out []models.FileMeta
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, ok := IDFromFile(e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("storage: list: %w", err)
		}
		data, err := os.ReadFile(filepath.Join(f.root, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("storage: list: %w", err)
		}
		out = append(out, models.FileMeta{
			ID:        id,
			Checksum:  checksum.Sum(data),
			UpdatedAt: info.ModTime(),
		})
	}
	return out, nil
}

// Read returns the raw bytes of a record file.
func (f *FS) Read(id string) ([]byte, error) {
	abs, err := f.safePath(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", id, notFound(err))
	}
	return data, nil
}

// Write atomically writes content: tmp file → fsync → rename.
func (f *FS) Write(id string, content []byte) error {
	abs, err := f.safePath(id)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.root, ".callnote-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// Delete removes a record file.
func (f *FS) Delete(id string) error {
	abs, err := f.safePath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("storage: delete %s: %w", id, notFound(err))
	}
	return nil
}

// notFound translates a missing file into apperr.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return apperr.ErrNotFound
	}
	return err
}
