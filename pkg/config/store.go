// Package config persists contextpack settings as a sectioned JSON document
// under ~/.contextpack/. Typed accessors for the exporter section live in
// settings.go.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is the persistence surface for configuration sections.
type Store interface {
	// Load reads the configuration from disk
	Load() error

	// Save writes the configuration to disk
	Save() error

	// GetSection returns the data for one section, empty if absent
	GetSection(sectionID string) (map[string]interface{}, error)

	// SetSection replaces the data for one section
	SetSection(sectionID string, data map[string]interface{}) error
}

// document is the on-disk shape: a format version plus named sections.
type document struct {
	Version  string                            `json:"version"`
	Sections map[string]map[string]interface{} `json:"sections"`
}

// FileStore implements Store using a single JSON file.
type FileStore struct {
	path     string
	sections map[string]map[string]interface{}
	mu       sync.RWMutex
	version  string
	modified bool
}

// NewFileStore opens a file-backed store. An empty path defaults to
// ~/.contextpack/config.json. A missing file is an empty store, not an error.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config: resolve home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".contextpack", "config.json")
	}

	store := &FileStore{
		path:     path,
		sections: make(map[string]map[string]interface{}),
		version:  "1.0",
	}
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	return store, nil
}

// Load reads the configuration from disk.
func (s *FileStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.sections = make(map[string]map[string]interface{})
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: read file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("config: decode file: %w", err)
	}

	s.version = doc.Version
	s.sections = doc.Sections
	if s.sections == nil {
		s.sections = make(map[string]map[string]interface{})
	}
	s.modified = false
	return nil
}

// Save writes the configuration to disk atomically, creating the parent
// directory as needed.
func (s *FileStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.MarshalIndent(document{Version: s.version, Sections: s.sections}, "", "  ")
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("config: init directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("config: write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("config: atomic rename %s: %w", s.path, err)
	}

	s.modified = false
	return nil
}

// GetSection returns a copy of one section's data; a missing section reads as
// empty.
func (s *FileStore) GetSection(sectionID string) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := s.sections[sectionID]
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out, nil
}

// SetSection replaces one section's data. The input map is copied so later
// caller mutation cannot leak into the store.
func (s *FileStore) SetSection(sectionID string, data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make(map[string]interface{}, len(data))
	for k, v := range data {
		stored[k] = v
	}
	s.sections[sectionID] = stored
	s.modified = true
	return nil
}

// IsModified reports whether the store has unsaved changes.
func (s *FileStore) IsModified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}
