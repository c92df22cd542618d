package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const defaultSlot = "main"

// SQLiteStore keeps the save document as a JSON payload in a single-row
// sqlite table. Each save replaces the slot inside a transaction.
type SQLiteStore struct {
	db    *sql.DB
	slot  string
	codec Codec
}

// NewSQLiteStore opens (creating if needed) the sqlite save database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "savegame.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS saves (
		slot TEXT PRIMARY KEY,
		save_id TEXT NOT NULL,
		saved_at TEXT NOT NULL,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create saves table: %w", err)
	}
	return &SQLiteStore{db: db, slot: defaultSlot, codec: JSONCodec{}}, nil
}

// Save replaces the slot with the encoded document.
func (s *SQLiteStore) Save(ctx context.Context, doc Document) (retErr error) {
	payload, err := s.codec.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode save document: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, s.slot); err != nil {
		return fmt.Errorf("clear slot: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO saves (slot, save_id, saved_at, payload) VALUES (?, ?, ?, ?)`,
		s.slot, doc.SaveID, doc.SavedAt.UTC().Format(time.RFC3339Nano), payload,
	); err != nil {
		return fmt.Errorf("insert save: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Load decodes the stored document.
func (s *SQLiteStore) Load(ctx context.Context) (Document, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM saves WHERE slot = ?`, s.slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNoSave
	}
	if err != nil {
		return Document{}, fmt.Errorf("select save: %w", err)
	}
	return s.codec.Decode(payload)
}

// Exists reports whether the slot holds a save.
func (s *SQLiteStore) Exists(ctx context.Context) bool {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM saves WHERE slot = ?`, s.slot).Scan(&n); err != nil {
		return false
	}
	return n > 0
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
