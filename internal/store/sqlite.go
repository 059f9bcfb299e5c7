package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/satfiles/satfiles/internal/catalog"

	_ "modernc.org/sqlite"
)

const catalogTableDDL = `
CREATE TABLE IF NOT EXISTS catalog_entries (
    slot INTEGER NOT NULL,
    position INTEGER NOT NULL,
    time TEXT NOT NULL,
    file TEXT NOT NULL,
    PRIMARY KEY (slot, position)
);
`

const insertEntrySQL = `INSERT INTO catalog_entries (slot, position, time, file) VALUES (?, ?, ?, ?)`
const selectSlotSQL = `SELECT time, file FROM catalog_entries WHERE slot = ? ORDER BY position`
const clearSlotSQL = `DELETE FROM catalog_entries WHERE slot = ?`

// SQLiteStore persists both catalog slots in one SQLite database. Each
// store call replaces a slot inside a single transaction, so concurrent
// readers in other processes see either the old catalog or the new one.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the catalog database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	if _, err := database.Exec(catalogTableDDL); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := applyPragmas(database); err != nil {
		database.Close()
		return nil, err
	}
	return &SQLiteStore{db: database}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(slot Slot) (*catalog.Catalog, error) {
	rows, err := s.db.Query(selectSlotSQL, slot)
	if err != nil {
		return nil, fmt.Errorf("failed to query slot %s: %w", slot, err)
	}
	defer rows.Close()

	var entries []catalog.Entry
	for rows.Next() {
		var timeStr, file string
		if err := rows.Scan(&timeStr, &file); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		t, err := time.Parse(timeLayout, timeStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse time %q: %w", timeStr, err)
		}
		entries = append(entries, catalog.Entry{Time: t, File: file})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", slot, err)
	}
	return catalog.New(entries), nil
}

func (s *SQLiteStore) Store(slot Slot, c *catalog.Catalog) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(clearSlotSQL, slot); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear slot %s: %w", slot, err)
	}

	stmt, err := tx.Prepare(insertEntrySQL)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range c.Entries() {
		if _, err := stmt.Exec(slot, i, e.Time.UTC().Format(timeLayout), e.File); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert entry %q: %w", e.File, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
