package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultSavePath is the well-known location of the save file.
const DefaultSavePath = "savegame.json"

// FileStore keeps the save document in a single file.
type FileStore struct {
	path  string
	codec Codec
}

// NewFileStore returns a store writing to path, encoded by its extension.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultSavePath
	}
	return &FileStore{path: path, codec: CodecFor(path)}
}

// Save writes the document to a temporary file in the same directory and
// renames it over the destination, so readers never see a partial write.
func (s *FileStore) Save(_ context.Context, doc Document) error {
	data, err := s.codec.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode save document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp save: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp save: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp save: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace save file: %w", err)
	}
	return nil
}

// Load reads and decodes the save file.
func (s *FileStore) Load(_ context.Context) (Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Document{}, ErrNoSave
		}
		return Document{}, fmt.Errorf("read save file %s: %w", s.path, err)
	}
	return s.codec.Decode(data)
}

// Exists reports whether a save file is present.
func (s *FileStore) Exists(_ context.Context) bool {
	_, err := os.Stat(s.path)
	return err == nil
}
