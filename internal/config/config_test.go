package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate points HOME and the config dir at a temp dir and clears the
// variables Load reads.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	for _, k := range []string{
		"TEUXDEUX_CONFIG", "TEUXDEUX_API_URL", "TEUXDEUX_TOKEN", "TEUXDEUX_THEME",
		"TEUXDEUX_LOG_LEVEL", "TEUXDEUX_LOG_FORMAT", "TEUXDEUX_LOG_FILE", "TEUXDEUX_STATE_FILE",
		"TEUXDEUX_FLASH_SECONDS", "TEUXDEUX_TIMEOUT_SECONDS", "TEUXDEUX_STRICT_SCHEMA",
	} {
		t.Setenv(k, "")
	}
	os.Unsetenv("NO_COLOR")

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func newFS() *flag.FlagSet { return flag.NewFlagSet("test", flag.ContinueOnError) }

func TestDefaults(t *testing.T) {
	dir := isolate(t)
	cfg, rest, err := Load(newFS(), []string{"week"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("APIURL: got %q", cfg.APIURL)
	}
	if cfg.FlashDuration() != 4*time.Second {
		t.Errorf("FlashDuration: got %v", cfg.FlashDuration())
	}
	if cfg.Timeout() != 0 {
		t.Errorf("Timeout: got %v, want none", cfg.Timeout())
	}
	if cfg.LogFile != filepath.Join(dir, ".teuxdeux", "teuxdeux.log") {
		t.Errorf("LogFile: got %q", cfg.LogFile)
	}
	if len(rest) != 1 || rest[0] != "week" {
		t.Errorf("rest: got %v", rest)
	}
	if cfg.Sources["api_url"] != SourceDefault {
		t.Errorf("source: got %q", cfg.Sources["api_url"])
	}
}

func TestPrecedence(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "cfg.toml")
	content := "api_url = \"http://file:1\"\ntheme = \"neon\"\nflash_seconds = 9\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TEUXDEUX_THEME", "mono")
	t.Setenv("TEUXDEUX_FLASH_SECONDS", "2")

	cfg, rest, err := Load(newFS(), []string{"--config", path, "--flash", "6", "week", "--offset", "7"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "http://file:1" || cfg.Sources["api_url"] != SourceFile {
		t.Errorf("api_url from file: got %q (%s)", cfg.APIURL, cfg.Sources["api_url"])
	}
	if cfg.Theme != "mono" || cfg.Sources["theme"] != SourceEnv {
		t.Errorf("theme from env: got %q (%s)", cfg.Theme, cfg.Sources["theme"])
	}
	if cfg.FlashSeconds != 6 || cfg.Sources["flash_seconds"] != SourceFlag {
		t.Errorf("flash from flag: got %d (%s)", cfg.FlashSeconds, cfg.Sources["flash_seconds"])
	}
	if cfg.File != path {
		t.Errorf("File: got %q", cfg.File)
	}
	if len(rest) != 3 || rest[0] != "week" {
		t.Errorf("rest: got %v", rest)
	}
}

func TestDotEnv(t *testing.T) {
	dir := isolate(t)
	os.Unsetenv("TEUXDEUX_TOKEN")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TEUXDEUX_TOKEN=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("TEUXDEUX_TOKEN") })

	cfg, _, err := Load(newFS(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Token != "from-dotenv" {
		t.Errorf("Token: got %q", cfg.Token)
	}
}

func TestInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad theme", []string{"--theme", "sparkly"}},
		{"bad url", []string{"--api", "localhost:8080"}},
		{"bad log format", []string{"--log-format", "xml"}},
		{"missing explicit file", []string{"--config", "/does/not/exist.toml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			if _, _, err := Load(newFS(), tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestUnknownFileKey(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "cfg.toml")
	os.WriteFile(path, []byte("colour = \"red\"\n"), 0o600)
	if _, _, err := Load(newFS(), []string{"--config=" + path}); err == nil {
		t.Error("expected unknown key error")
	}
}

func TestNoColorEnv(t *testing.T) {
	isolate(t)
	t.Setenv("NO_COLOR", "1")
	cfg, _, err := Load(newFS(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.NoColor {
		t.Error("NO_COLOR should disable color")
	}
}

func TestExplicitConfigPath(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--config", "a.toml"}, "a.toml"},
		{[]string{"-config=b.toml", "week"}, "b.toml"},
		{[]string{"--api", "http://x", "--config", "c.toml"}, "c.toml"},
		{[]string{"week"}, ""},
		{[]string{"--", "--config", "d.toml"}, ""},
	}
	for _, tt := range tests {
		if got := explicitConfigPath(tt.args); got != tt.want {
			t.Errorf("explicitConfigPath(%v): got %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestSettings(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.Token = "secret"
	cfg.Sources["token"] = SourceEnv
	cfg.Theme = "neon"
	cfg.Sources["theme"] = SourceFlag

	got := cfg.Settings()
	if len(got) != len(keys) || got[0].Key != "api_url" {
		t.Fatalf("got %+v", got)
	}
	byKey := map[string]Setting{}
	for _, s := range got {
		byKey[s.Key] = s
	}
	if s := byKey["token"]; s.Value != "(set)" || s.Source != SourceEnv {
		t.Errorf("token: got %+v", s)
	}
	if s := byKey["theme"]; s.Value != "neon" || s.Source != SourceFlag {
		t.Errorf("theme: got %+v", s)
	}
	if s := byKey["flash_seconds"]; s.Value != "4" || s.Source != SourceDefault {
		t.Errorf("flash_seconds: got %+v", s)
	}
}
