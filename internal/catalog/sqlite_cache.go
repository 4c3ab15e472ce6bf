package catalog

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	_ "modernc.org/sqlite"
)

// ErrCacheMiss is returned by ReadCache when the cache does not match the
// requested source digest (absent, stale, or written for another catalog).
var ErrCacheMiss = errors.New("catalog cache miss")

// SourceDigest hashes the catalog document so the cache can be keyed by
// exact content rather than by path or mtime.
func SourceDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// WriteCache snapshots a parsed index into a SQLite database so repeat runs
// against the same catalog skip the document parse. One transaction, one
// JSON record blob per entry.
func WriteCache(dbPath, digest string, ix *Index) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open cache %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }()

	// Bulk-insert tuning; the cache is disposable, durability is not a goal.
	if _, err := db.Exec("PRAGMA synchronous = OFF"); err != nil {
		return err
	}
	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		return err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS machines (
		seq INTEGER PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		record JSON NOT NULL
	);
	DELETE FROM meta;
	DELETE FROM machines;
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create cache schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO machines (seq, id, record) VALUES (?, ?, ?)")
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for seq, m := range ix.All() {
		record, err := json.Marshal(m)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("marshal %s: %w", m.ID, err)
		}
		if _, err := stmt.Exec(seq, m.ID, string(record)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert %s: %w", m.ID, err)
		}
	}

	if _, err := tx.Exec("INSERT INTO meta (key, value) VALUES ('digest', ?)", digest); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ReadCache rebuilds an index from a cache written for the given digest.
// Any mismatch or missing table reads as ErrCacheMiss so callers fall back
// to the document parse.
func ReadCache(dbPath, digest string) (*Index, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }()

	var stored string
	err = db.QueryRow("SELECT value FROM meta WHERE key = 'digest'").Scan(&stored)
	if err != nil || stored != digest {
		return nil, ErrCacheMiss
	}

	rows, err := db.Query("SELECT record FROM machines ORDER BY seq")
	if err != nil {
		return nil, ErrCacheMiss
	}
	defer func() { _ = rows.Close() }()

	ix := NewIndex()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan cache row: %w", err)
		}
		var m MachineEntry
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("parse cache record: %w", err)
		}
		if err := ix.Add(&m); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if ix.Len() == 0 {
		return nil, ErrCacheMiss
	}
	return ix, nil
}
