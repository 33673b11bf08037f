package config

import (
	"os"
	"strconv"
	"strings"
)

// loadFromEnv overrides config from TEUXDEUX_* variables.
func loadFromEnv(cfg *Config) {
	str := func(name, key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			*dst = v
			cfg.Sources[key] = SourceEnv
		}
	}
	num := func(name, key string, dst *int) {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
				cfg.Sources[key] = SourceEnv
			}
		}
	}
	boolean := func(name, key string, dst *bool) {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
				cfg.Sources[key] = SourceEnv
			}
		}
	}

	str("TEUXDEUX_API_URL", "api_url", &cfg.APIURL)
	str("TEUXDEUX_TOKEN", "token", &cfg.Token)
	str("TEUXDEUX_THEME", "theme", &cfg.Theme)
	str("TEUXDEUX_LOG_LEVEL", "log_level", &cfg.LogLevel)
	str("TEUXDEUX_LOG_FORMAT", "log_format", &cfg.LogFormat)
	str("TEUXDEUX_LOG_FILE", "log_file", &cfg.LogFile)
	str("TEUXDEUX_STATE_FILE", "state_file", &cfg.StateFile)
	num("TEUXDEUX_FLASH_SECONDS", "flash_seconds", &cfg.FlashSeconds)
	num("TEUXDEUX_TIMEOUT_SECONDS", "timeout_seconds", &cfg.TimeoutSeconds)
	boolean("TEUXDEUX_STRICT_SCHEMA", "strict_schema", &cfg.StrictSchema)

	// NO_COLOR is the cross-tool convention: any value disables color.
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.NoColor = true
		cfg.Sources["no_color"] = SourceEnv
	}
}
