package jsonstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingIsZero(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope", "state.json"))
	st, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.ActiveCategory != 0 || st.ShowCompleted != nil {
		t.Errorf("got %+v", st)
	}
}

func TestSaveLoad(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "sub", "state.json"))
	show := false
	if err := s.Save(State{ActiveCategory: 4, ShowCompleted: &show}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	st, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.ActiveCategory != 4 || st.ShowCompleted == nil || *st.ShowCompleted {
		t.Errorf("got %+v", st)
	}
	entries, _ := os.ReadDir(filepath.Dir(s.Path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func TestCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	os.WriteFile(path, []byte("{"), 0o600)
	if _, err := New(path).Load(); err == nil {
		t.Error("expected error")
	}
}

func TestNilStoreIsNoop(t *testing.T) {
	var s *Store
	if err := s.Save(State{ActiveCategory: 1}); err != nil {
		t.Error(err)
	}
	if _, err := s.Load(); err != nil {
		t.Error(err)
	}
}
