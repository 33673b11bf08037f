package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Options{Level: "warn"})
	l.Info("hidden")
	l.Warn("shown", "id", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "id=3") {
		t.Errorf("warn line missing: %q", out)
	}
	if !strings.Contains(out, Prefix) {
		t.Errorf("prefix missing: %q", out)
	}
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Options{Level: "chatty"})
	l.Debug("no")
	l.Info("yes")
	if strings.Contains(buf.String(), "no") || !strings.Contains(buf.String(), "yes") {
		t.Errorf("got %q", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Options{Level: "info", Format: "json"})
	l.Error("request failed", "status", 500)

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("not json: %q (%v)", buf.String(), err)
	}
	if line["msg"] != "request failed" {
		t.Errorf("msg: got %v", line["msg"])
	}
}

func TestFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "teuxdeux.log")
	for i := 0; i < 2; i++ {
		l, c, err := File(path, Options{Level: "info"})
		if err != nil {
			t.Fatalf("File: %v", err)
		}
		l.Info("line")
		c.Close()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(b), "line"); n != 2 {
		t.Errorf("got %d lines, want 2", n)
	}
}
