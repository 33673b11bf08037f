package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/niclasedge/fast-teuxdeux/internal/config"
)

const calendarCSV = `termin,start,end,location
Standup,2026-10-19 09:30,2026-10-19 09:45,
Retro,2026-10-28 10:00,2026-10-28 11:00,
Dentist,2026-10-29 14:00,2026-10-29 15:00,Main St 5
Standup,2026-10-19 09:30,2026-10-19 09:45,
Broken,soon,2026-10-29 15:00,
`

func writeCalendar(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calendar.csv")
	if err := os.WriteFile(path, []byte(calendarCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportSkipsDuplicatesAcrossWeeks(t *testing.T) {
	h := newHarness(t)
	// Already imported, in next week's grid.
	h.srv.SeedTodo("10:00 Retro", "2026-10-28", 0)
	path := writeCalendar(t)

	if code := h.run("import", path, "--tz", "UTC"); code != 0 {
		t.Fatalf("exit %d: %s", code, h.err.String())
	}
	if !strings.Contains(h.out.String(), "imported 2 events (2 duplicates, 1 invalid rows)") {
		t.Errorf("out: %q", h.out.String())
	}
	if n := h.srv.Mutations(); n != 2 {
		t.Errorf("mutations: got %d", n)
	}
	if got, ok := h.srv.Todo(2); !ok || got.Title != "09:30 Standup" || got.Date() != "2026-10-19" {
		t.Errorf("standup: got %+v", got)
	}
	if got, ok := h.srv.Todo(3); !ok || got.Title != "14:00 Dentist (Main St 5)" || got.Date() != "2026-10-29" {
		t.Errorf("dentist: got %+v", got)
	}

	// Running it again adds nothing.
	h.srv.ResetCalls()
	if code := h.run("import", path, "--tz", "UTC"); code != 0 {
		t.Fatalf("rerun: exit %d: %s", code, h.err.String())
	}
	if n := h.srv.Mutations(); n != 0 {
		t.Errorf("rerun mutations: got %d", n)
	}
	if !strings.Contains(h.out.String(), "imported 0 events (4 duplicates, 1 invalid rows)") {
		t.Errorf("rerun out: %q", h.out.String())
	}
}

func TestImportDryRunAndStdin(t *testing.T) {
	h := newHarness(t)
	h.opt.In = strings.NewReader(calendarCSV)

	if code := h.run("import", "-", "--dry-run", "--tz", "UTC"); code != 0 {
		t.Fatalf("exit %d: %s", code, h.err.String())
	}
	if h.srv.Mutations() != 0 {
		t.Errorf("dry run changed %d todos", h.srv.Mutations())
	}
	out := h.out.String()
	for _, want := range []string{`would add "09:30 Standup" for 2026-10-19`, `would add "10:00 Retro" for 2026-10-28`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestImportFailures(t *testing.T) {
	h := newHarness(t)
	if code := h.run("import", filepath.Join(t.TempDir(), "missing.csv")); code != 1 {
		t.Errorf("missing file: exit %d", code)
	}

	path := writeCalendar(t)
	h.srv.FailNext(500, "database is locked")
	if code := h.run("import", path, "--tz", "UTC"); code != 1 {
		t.Errorf("backend down: exit %d", code)
	}
	if h.srv.Mutations() != 0 {
		t.Errorf("mutations after failed lookup: %d", h.srv.Mutations())
	}
}

func TestImportPurge(t *testing.T) {
	h := newHarness(t)
	standup := h.srv.SeedTodo("09:30 Standup", "2026-10-19", 0)
	milk := h.srv.SeedTodo("Buy milk", "2026-10-19", 0)
	dentist := h.srv.SeedTodo("14:00 Dentist", "", 0)
	flight := h.srv.SeedTodo("08:00 Flight", "2026-10-28", 0)

	if code := h.run("import", "--purge", "--dry-run"); code != 0 {
		t.Fatalf("dry run: exit %d: %s", code, h.err.String())
	}
	if h.srv.Mutations() != 0 {
		t.Errorf("dry run changed %d todos", h.srv.Mutations())
	}

	if code := h.run("import", "--purge"); code != 0 {
		t.Fatalf("exit %d: %s", code, h.err.String())
	}
	if !strings.Contains(h.out.String(), "removed 2 imported todos") {
		t.Errorf("out: %q", h.out.String())
	}
	for id, want := range map[int64]bool{standup: false, milk: true, dentist: false, flight: true} {
		if _, ok := h.srv.Todo(id); ok != want {
			t.Errorf("todo %d present=%v, want %v", id, ok, want)
		}
	}

	if code := h.run("import", "--purge", "--weeks", "2"); code != 0 {
		t.Fatalf("two weeks: exit %d: %s", code, h.err.String())
	}
	if _, ok := h.srv.Todo(flight); ok {
		t.Error("next week's imported todo survived")
	}
}

func TestConfigCommand(t *testing.T) {
	h := newHarness(t)
	if code := h.run("config"); code != 2 {
		t.Errorf("without config: exit %d", code)
	}

	h.opt.Config = &config.Config{
		APIURL:  "http://example:8080",
		Token:   "secret",
		Theme:   "mono",
		Sources: map[string]config.Source{"api_url": config.SourceFlag},
	}
	if code := h.run("config"); code != 0 {
		t.Fatalf("exit %d: %s", code, h.err.String())
	}
	out := h.out.String()
	if !strings.Contains(out, "http://example:8080") || !strings.Contains(out, "flag") || !strings.Contains(out, "file: (none)") {
		t.Errorf("out: %q", out)
	}
	if strings.Contains(out, "secret") {
		t.Error("token value printed")
	}
}
