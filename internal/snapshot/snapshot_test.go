package snapshot

import (
	"os"
	"path/filepath"
	"testing"
)

type payload struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Score float64 `json:"score"`
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	in := []payload{
		{Name: "first", Count: 3, Score: 6.5},
		{Name: "second", Count: 7, Score: 9.1},
	}
	if err := s.Save("games", in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var out []payload
	if err := s.Load("games", &out); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d records, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("record %d = %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestSaveWritesCurrentAndBackup(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.Save("report", payload{Name: "x"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "report_current.json")); err != nil {
		t.Errorf("current file missing: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "report_*.json"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("got %d report files, want current plus one backup", len(matches))
	}
}

func TestSaveOverwritesCurrent(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.Save("games", payload{Name: "old"}); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := s.Save("games", payload{Name: "new"}); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	var out payload
	if err := s.Load("games", &out); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Name != "new" {
		t.Errorf("current holds %q, want latest write", out.Name)
	}
}

func TestLoadMissingCategory(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out payload
	if err := s.Load("nothing", &out); err == nil {
		t.Error("Load of missing category returned nil error")
	}
}
