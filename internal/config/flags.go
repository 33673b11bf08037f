package config

import (
	"flag"
	"fmt"
	"strings"
)

// parseFlags binds the root flags onto cfg and returns the remaining args.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) ([]string, error) {
	if fs == nil {
		fs = flag.NewFlagSet("teuxdeux", flag.ContinueOnError)
	}

	var configPath string
	fs.StringVar(&configPath, "config", "", "Path to config file")
	fs.StringVar(&cfg.APIURL, "api", cfg.APIURL, "Backend base URL")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "Theme: classic, neon or mono")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored output")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text, json or logfmt")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file used while the TUI runs")
	fs.IntVar(&cfg.FlashSeconds, "flash", cfg.FlashSeconds, "Seconds a status message stays visible")
	fs.IntVar(&cfg.TimeoutSeconds, "timeout", cfg.TimeoutSeconds, "Per-request timeout in seconds (0 = none)")
	fs.BoolVar(&cfg.StrictSchema, "strict", cfg.StrictSchema, "Validate dashboard responses against the schema")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	names := map[string]string{
		"api": "api_url", "theme": "theme", "no-color": "no_color", "log-level": "log_level",
		"log-format": "log_format", "log-file": "log_file", "flash": "flash_seconds",
		"timeout": "timeout_seconds", "strict": "strict_schema",
	}
	fs.Visit(func(f *flag.Flag) {
		if key, ok := names[f.Name]; ok {
			cfg.Sources[key] = SourceFlag
		}
	})
	return fs.Args(), nil
}

// explicitConfigPath pulls -config/--config out of args without parsing the
// rest, so the file can be read before flags override it.
func explicitConfigPath(args []string) string {
	for i, a := range args {
		if a == "--" {
			return ""
		}
		if !strings.HasPrefix(a, "-") {
			continue
		}
		name := strings.TrimLeft(a, "-")
		if v, ok := strings.CutPrefix(name, "config="); ok {
			return v
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
