package userstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// JSONBackend stores all records in a single JSON file keyed by user id.
// Writes go through a temp file and rename so a crash mid-write leaves the
// previous state intact.
type JSONBackend struct {
	path string
}

// NewJSONBackend points the backend at a file path; the file may not exist
// yet.
func NewJSONBackend(path string) *JSONBackend {
	return &JSONBackend{path: path}
}

// Load reads the full record set. A missing file yields an empty set.
func (b *JSONBackend) Load() (map[int64]*Record, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[int64]*Record{}, nil
		}
		return nil, fmt.Errorf("userstore: read %s: %w", b.path, err)
	}

	// User ids are JSON object keys, hence strings on disk.
	var raw map[string]*Record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("userstore: parse %s: %w", b.path, err)
	}

	records := make(map[int64]*Record, len(raw))
	for key, rec := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("userstore: bad user id %q in %s", key, b.path)
		}
		records[id] = rec
	}
	return records, nil
}

// Save rewrites the whole file atomically.
func (b *JSONBackend) Save(records map[int64]*Record) error {
	raw := make(map[string]*Record, len(records))
	for id, rec := range records {
		raw[strconv.FormatInt(id, 10)] = rec
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("userstore: encode records: %w", err)
	}

	dir := filepath.Dir(b.path)
	tmp, err := os.CreateTemp(dir, ".user_data-*.json")
	if err != nil {
		return fmt.Errorf("userstore: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("userstore: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("userstore: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("userstore: replace %s: %w", b.path, err)
	}
	return nil
}
