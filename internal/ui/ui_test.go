package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		done, total, width int
		want               string
	}{
		{0, 0, 10, "[░░░░░░░░░░] 0/0"},
		{5, 10, 10, "[█████░░░░░] 5/10"},
		{3, 3, 5, "[█████] 3/3"},
		{1, 4, 2, "[█░░░░] 1/4"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.done, tt.total, tt.width); got != tt.want {
			t.Errorf("ProgressBar(%d,%d,%d): got %q, want %q", tt.done, tt.total, tt.width, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("groceries", 20); got != "groceries" {
		t.Errorf("got %q", got)
	}
	got := Truncate("buy groceries today", 8)
	if lipgloss.Width(got) > 8 || !strings.HasSuffix(got, "…") {
		t.Errorf("got %q", got)
	}
	if Truncate("x", 0) != "" {
		t.Error("zero width should be empty")
	}
	if got := Truncate("call mom\nabout\tthe  trip\r", 40); got != "call mom about the trip" {
		t.Errorf("got %q", got)
	}
}

func TestOneLine(t *testing.T) {
	tests := map[string]string{
		"plain":                 "plain",
		"  padded  ":            "padded",
		"two\nlines":            "two lines",
		"bell\x07and\x1bescape": "bell and escape",
		"":                      "",
	}
	for in, want := range tests {
		if got := OneLine(in); got != want {
			t.Errorf("OneLine(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestThemes(t *testing.T) {
	defer SetTheme("classic", false)

	SetTheme("neon", false)
	if Current().Name != "neon" {
		t.Errorf("got %q", Current().Name)
	}
	SetTheme("neon", true)
	if Current().Name != "mono" || Current().Checkbox(true) != "[x]" {
		t.Errorf("no-color should force mono, got %q", Current().Name)
	}
	SetTheme("whatever", false)
	if Current().Name != "classic" {
		t.Errorf("unknown theme should fall back to classic, got %q", Current().Name)
	}
}

func TestPanelAndOutcomes(t *testing.T) {
	defer SetTheme("classic", false)
	SetTheme("mono", false)

	var buf bytes.Buffer
	Panel(&buf, []string{"hello", "world"})
	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "┌") {
		t.Errorf("panel: %q", out)
	}

	buf.Reset()
	Fail(&buf, "nope")
	if !strings.Contains(buf.String(), "error: nope") {
		t.Errorf("fail: %q", buf.String())
	}
}
