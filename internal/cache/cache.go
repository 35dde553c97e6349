// Package cache persists extracted symbol records in SQLite so files that
// have not changed between runs skip reparsing. Entries are keyed by file
// path and invalidated by modification time.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mvp-joe/symseek/internal/symbols"
)

const schema = `
CREATE TABLE IF NOT EXISTS files (
	path       TEXT PRIMARY KEY,
	mtime_unix INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS records (
	path      TEXT    NOT NULL,
	seq       INTEGER NOT NULL,
	line      INTEGER NOT NULL,
	col       INTEGER NOT NULL,
	signature TEXT    NOT NULL,
	kind      INTEGER NOT NULL,
	PRIMARY KEY (path, seq)
);
`

// Store is a SQLite-backed symbols.Store.
type Store struct {
	db *sql.DB
}

// Open creates or opens the cache database at dbPath, creating parent
// directories and the schema as needed.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Lookup returns the cached records for path if the stored modification
// time matches mtime. The second return value reports a usable hit.
func (s *Store) Lookup(path string, mtime int64) ([]symbols.Record, bool, error) {
	var stored int64
	err := sq.Select("mtime_unix").
		From("files").
		Where(sq.Eq{"path": path}).
		RunWith(s.db).
		QueryRow().
		Scan(&stored)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query cached file: %w", err)
	}
	if stored != mtime {
		return nil, false, nil
	}

	rows, err := sq.Select("line", "col", "signature", "kind").
		From("records").
		Where(sq.Eq{"path": path}).
		OrderBy("seq").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, false, fmt.Errorf("query cached records: %w", err)
	}
	defer rows.Close()

	records := []symbols.Record{}
	for rows.Next() {
		var rec symbols.Record
		var kind int
		if err := rows.Scan(&rec.Line, &rec.Column, &rec.Signature, &kind); err != nil {
			return nil, false, fmt.Errorf("scan cached record: %w", err)
		}
		rec.File = path
		rec.Kind = symbols.Kind(kind)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate cached records: %w", err)
	}

	return records, true, nil
}

// Save replaces the cached records for path in one transaction.
func (s *Store) Save(path string, mtime int64, records []symbols.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin cache transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("INSERT INTO files (path, mtime_unix) VALUES (?, ?) ON CONFLICT(path) DO UPDATE SET mtime_unix = excluded.mtime_unix", path, mtime); err != nil {
		return fmt.Errorf("store cached file: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM records WHERE path = ?", path); err != nil {
		return fmt.Errorf("clear cached records: %w", err)
	}

	for i, rec := range records {
		_, err := sq.Insert("records").
			Columns("path", "seq", "line", "col", "signature", "kind").
			Values(path, i, rec.Line, rec.Column, rec.Signature, int(rec.Kind)).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("store cached record: %w", err)
		}
	}

	return tx.Commit()
}
