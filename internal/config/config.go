// Package config loads client settings from defaults, a TOML file, a .env
// file, the environment and root flags, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Source says where a setting came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceFile    Source = "config file"
	SourceEnv     Source = "environment"
	SourceFlag    Source = "flag"
)

// Defaults.
const (
	DefaultAPIURL       = "http://localhost:8080"
	DefaultTheme        = "classic"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultLogFile      = "~/.teuxdeux/teuxdeux.log"
	DefaultFlashSeconds = 4
	DefaultStateFile    = "~/.teuxdeux/state.json"
)

// Config holds every client setting.
type Config struct {
	APIURL         string `toml:"api_url"`
	Token          string `toml:"token"`
	Theme          string `toml:"theme"`
	NoColor        bool   `toml:"no_color"`
	LogLevel       string `toml:"log_level"`
	LogFormat      string `toml:"log_format"`
	LogFile        string `toml:"log_file"`
	StateFile      string `toml:"state_file"`
	FlashSeconds   int    `toml:"flash_seconds"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	StrictSchema   bool   `toml:"strict_schema"`

	// File is the config file that was read, if any.
	File string `toml:"-"`
	// Sources records where each toml key came from.
	Sources map[string]Source `toml:"-"`
}

// FlashDuration is how long transient messages stay on screen.
func (c *Config) FlashDuration() time.Duration {
	return time.Duration(c.FlashSeconds) * time.Second
}

// Timeout bounds each API request; zero means none.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func setDefaults(cfg *Config) {
	cfg.APIURL = DefaultAPIURL
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogFile = DefaultLogFile
	cfg.StateFile = DefaultStateFile
	cfg.FlashSeconds = DefaultFlashSeconds
	cfg.Sources = map[string]Source{}
	for _, k := range keys {
		cfg.Sources[k] = SourceDefault
	}
}

var keys = []string{
	"api_url", "token", "theme", "no_color", "log_level", "log_format", "log_file",
	"state_file", "flash_seconds", "timeout_seconds", "strict_schema",
}

// Setting is one resolved key, its value and where the value came from.
type Setting struct {
	Key    string
	Value  string
	Source Source
}

// Settings lists every key in file order. The token value is never shown.
func (c *Config) Settings() []Setting {
	values := map[string]string{
		"api_url":         c.APIURL,
		"token":           "(unset)",
		"theme":           c.Theme,
		"no_color":        strconv.FormatBool(c.NoColor),
		"log_level":       c.LogLevel,
		"log_format":      c.LogFormat,
		"log_file":        c.LogFile,
		"state_file":      c.StateFile,
		"flash_seconds":   strconv.Itoa(c.FlashSeconds),
		"timeout_seconds": strconv.Itoa(c.TimeoutSeconds),
		"strict_schema":   strconv.FormatBool(c.StrictSchema),
	}
	if c.Token != "" {
		values["token"] = "(set)"
	}
	out := make([]Setting, 0, len(keys))
	for _, k := range keys {
		src := c.Sources[k]
		if src == "" {
			src = SourceDefault
		}
		out = append(out, Setting{Key: k, Value: values[k], Source: src})
	}
	return out
}

// Load builds the configuration. fs receives the root flags; the arguments
// left after flag parsing are returned for the subcommand router.
func Load(fs *flag.FlagSet, args []string) (*Config, []string, error) {
	cfg := &Config{}
	setDefaults(cfg)

	// The config path itself can come from a flag or the environment, so it is
	// looked up before anything else is parsed.
	path := explicitConfigPath(args)
	if path == "" {
		path = os.Getenv("TEUXDEUX_CONFIG")
	}
	if err := loadFile(cfg, path); err != nil {
		return nil, nil, err
	}

	// A missing .env is normal; any other error is worth reporting.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("loading .env: %w", err)
	}
	loadFromEnv(cfg)

	rest, err := parseFlags(cfg, fs, args)
	if err != nil {
		return nil, nil, err
	}

	if err := finalize(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, rest, nil
}

// loadFile reads the TOML config. An explicit path must exist; the default
// user file is optional.
func loadFile(cfg *Config, path string) error {
	explicit := path != ""
	if !explicit {
		p, err := UserConfigPath()
		if err != nil {
			return nil
		}
		path = p
	}
	path = expandPath(path)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	for _, k := range md.Keys() {
		cfg.Sources[k.String()] = SourceFile
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
	}
	cfg.File = path
	return nil
}

// UserConfigPath is ~/.config/teuxdeux/config.toml (or the OS equivalent).
func UserConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "teuxdeux", "config.toml"), nil
}

func finalize(cfg *Config) error {
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	u, err := url.Parse(cfg.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api_url %q", cfg.APIURL)
	}

	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	switch cfg.Theme {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("unknown theme %q (want classic, neon or mono)", cfg.Theme)
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	switch cfg.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("unknown log_format %q (want text, json or logfmt)", cfg.LogFormat)
	}

	if cfg.FlashSeconds <= 0 {
		cfg.FlashSeconds = DefaultFlashSeconds
	}
	if cfg.TimeoutSeconds < 0 {
		cfg.TimeoutSeconds = 0
	}
	cfg.LogFile = expandPath(cfg.LogFile)
	cfg.StateFile = expandPath(cfg.StateFile)
	return nil
}
