package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// JSON-backed view state. Single file, human-readable.
// Only UI preferences live here; todos and categories always come from the
// backend.

// State is what the board remembers between sessions.
type State struct {
	ActiveCategory int64 `json:"active_category"`
	ShowCompleted  *bool `json:"show_completed,omitempty"`
}

// Store persists State at Path.
type Store struct {
	Path string
}

func New(path string) *Store { return &Store{Path: path} }

// Load returns the saved state, or the zero State if nothing was saved yet.
func (s *Store) Load() (State, error) {
	var st State
	if s == nil || s.Path == "" {
		return st, nil
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return st, nil
		}
		return st, fmt.Errorf("read file: %w", err)
	}
	if err := json.Unmarshal(b, &st); err != nil {
		return State{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return st, nil
}

// Save writes st atomically: a temp file in the same directory is renamed
// over the old one.
func (s *Store) Save(st State) error {
	if s == nil || s.Path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
