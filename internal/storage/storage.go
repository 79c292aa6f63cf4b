// Package storage persists the scraped park collection as a single
// pretty-printed UTF-8 JSON artifact.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mnatlas/mn-parks/internal/park"
)

// Storage handles persistence of the park collection
type Storage struct {
	path string
}

// New creates a Storage writing to the given file path. A leading ~/ is
// expanded to the home directory and missing parent directories are created.
func New(path string) (*Storage, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	return &Storage{path: path}, nil
}

// Path returns the resolved output path
func (s *Storage) Path() string {
	return s.path
}

// SaveCollection writes the whole collection in one shot. Output is indented
// two spaces with HTML escaping disabled, so URLs and non-ASCII park names
// are stored as-is.
func (s *Storage) SaveCollection(records []*park.Record) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing collection: %w", err)
	}
	return nil
}

// LoadCollection reads a previously saved collection back
func (s *Storage) LoadCollection() ([]*park.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading collection: %w", err)
	}

	var records []*park.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing collection: %w", err)
	}
	return records, nil
}
