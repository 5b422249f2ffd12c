package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alexanderramin/ticktrack/internal/domain"
)

// FileStore keeps slots in a JSON object on disk, one member per key.
// Members other than its own key are preserved on Save.
type FileStore struct {
	path string
	key  string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path, key string) *FileStore {
	if key == "" {
		key = DefaultSlotKey
	}
	return &FileStore{path: path, key: key}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) readSlots() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	slots := map[string]json.RawMessage{}
	if len(data) == 0 {
		return slots, nil
	}
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptSlot, s.path, err)
	}
	return slots, nil
}

func (s *FileStore) Load(_ context.Context) ([]domain.TimeEntry, error) {
	slots, err := s.readSlots()
	if err != nil {
		return nil, err
	}
	entries, err := DecodeEntries(slots[s.key])
	if err != nil {
		return nil, fmt.Errorf("decoding slot %q: %w", s.key, err)
	}
	return entries, nil
}

// Save rewrites the file through a temporary file and a rename so readers
// never observe a partial write.
func (s *FileStore) Save(_ context.Context, entries []domain.TimeEntry) error {
	slots, err := s.readSlots()
	if err != nil {
		return err
	}
	data, err := EncodeEntries(entries)
	if err != nil {
		return err
	}
	slots[s.key] = data

	out, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding slots: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}
