package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/satfiles/satfiles/internal/catalog"
)

// TextStore keeps catalogs as two-column text files under dir: the current
// slot in name and the previous slot in "previous_"+name. Column one is the
// entry time, column two the relative file path. Writes go through a temp
// file and a rename. Nothing guards against concurrent writers; callers
// sharing a catalog across processes should use a MemoryStore or an
// SQLiteStore instead.
type TextStore struct {
	dir  string
	name string
}

// NewTextStore creates a text backend rooted at dir using the given
// primary file name.
func NewTextStore(dir, name string) *TextStore {
	return &TextStore{dir: dir, name: name}
}

// Path returns the file backing the given slot.
func (s *TextStore) Path(slot Slot) string {
	if slot == SlotPrevious {
		return filepath.Join(s.dir, "previous_"+s.name)
	}
	return filepath.Join(s.dir, s.name)
}

// Load reads the catalog stored in slot. A missing or zero-byte file is an
// empty catalog.
func (s *TextStore) Load(slot Slot) (*catalog.Catalog, error) {
	path := s.Path(slot)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return catalog.Empty(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat catalog file: %w", err)
	}
	if info.Size() == 0 {
		return catalog.Empty(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	entries := make([]catalog.Entry, 0, len(rows))
	for _, row := range rows {
		t, err := time.Parse(timeLayout, row[0])
		if err != nil {
			return nil, fmt.Errorf("failed to parse time %q in %s: %w", row[0], path, err)
		}
		entries = append(entries, catalog.Entry{Time: t, File: row[1]})
	}
	return catalog.New(entries), nil
}

// Store writes the catalog into slot atomically.
func (s *TextStore) Store(slot Slot, c *catalog.Catalog) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	final := s.Path(slot)
	temp := final + ".tmp"
	f, err := os.Create(temp)
	if err != nil {
		return fmt.Errorf("failed to create temp catalog file: %w", err)
	}

	w := csv.NewWriter(f)
	for _, e := range c.Entries() {
		if err := w.Write([]string{e.Time.UTC().Format(timeLayout), e.File}); err != nil {
			f.Close()
			os.Remove(temp)
			return fmt.Errorf("failed to write catalog row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		os.Remove(temp)
		return fmt.Errorf("failed to flush catalog file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(temp)
		return fmt.Errorf("failed to close temp catalog file: %w", err)
	}

	if err := os.Rename(temp, final); err != nil {
		os.Remove(temp)
		return fmt.Errorf("failed to rename catalog file: %w", err)
	}
	return nil
}
