// Package snapshot persists per-run collections as JSON documents in a
// local data directory. Each category gets a "current" file overwritten
// wholesale every run plus a timestamped backup copy.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store writes and reads JSON snapshots.
type Store struct {
	dir string
}

// New creates a snapshot store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		dir = "./data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// Save writes v as <category>_current.json and a timestamped backup.
// The current file is replaced wholesale; no merging across runs.
func (s *Store) Save(category string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", category, err)
	}

	current := filepath.Join(s.dir, category+"_current.json")
	if err := os.WriteFile(current, data, 0o644); err != nil {
		return fmt.Errorf("write %s snapshot: %w", category, err)
	}

	stamp := time.Now().UTC().Format("20060102_150405")
	backup := filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", category, stamp))
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		return fmt.Errorf("write %s backup: %w", category, err)
	}

	return nil
}

// Load reads the current snapshot for a category into v.
func (s *Store) Load(category string, v any) error {
	current := filepath.Join(s.dir, category+"_current.json")
	data, err := os.ReadFile(current)
	if err != nil {
		return fmt.Errorf("read %s snapshot: %w", category, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s snapshot: %w", category, err)
	}
	return nil
}
