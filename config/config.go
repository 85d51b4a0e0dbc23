// ABOUTME: Client configuration stored at XDG paths with .env and environment overrides
// ABOUTME: Holds the backend URL, request ceiling, paging, debounce, and cache settings
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	// AppName names the XDG config directory.
	AppName = "rolodex"

	// ConfigFileName is where we store local config.
	ConfigFileName = "config.json"

	DefaultBaseURL       = "http://localhost:3001"
	DefaultTimeout       = 10 * time.Second
	DefaultPageSize      = 25
	DefaultSearchLimit   = 50
	DefaultDebounceDelay = 300 * time.Millisecond
	DefaultStaleTime     = 30 * time.Second
	DefaultLogLevel      = "info"
)

// Config holds client settings.
type Config struct {
	// BaseURL is the backend origin; the client appends /api paths.
	BaseURL string `json:"base_url"`

	// Timeout is the per-request ceiling.
	Timeout Duration `json:"timeout"`

	// PageSize is used by list commands when the location sets none.
	PageSize int `json:"page_size"`

	SearchLimit int `json:"search_limit"`

	// DebounceDelay is how long interactive search waits after the last keystroke.
	DebounceDelay Duration `json:"debounce_delay"`

	// StaleTime is how long a cached read is served before refetching.
	StaleTime Duration `json:"stale_time"`

	LogLevel string `json:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `json:"log_format,omitempty"`

	// NoColor disables styled terminal output.
	NoColor bool `json:"no_color,omitempty"`
}

// Default returns a config with sensible defaults.
func Default() *Config {
	return &Config{
		BaseURL:       DefaultBaseURL,
		Timeout:       Duration(DefaultTimeout),
		PageSize:      DefaultPageSize,
		SearchLimit:   DefaultSearchLimit,
		DebounceDelay: Duration(DefaultDebounceDelay),
		StaleTime:     Duration(DefaultStaleTime),
		LogLevel:      DefaultLogLevel,
	}
}

// Dir returns the XDG config directory for rolodex.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), ConfigFileName)
}

// Load reads the config file, then a .env file in the working directory, then
// environment variables. A missing file or .env is not an error.
// Environment variables override file values:
// - ROLODEX_API_URL
// - ROLODEX_TIMEOUT
// - ROLODEX_PAGE_SIZE
// - ROLODEX_SEARCH_LIMIT
// - ROLODEX_DEBOUNCE
// - ROLODEX_STALE_TIME
// - ROLODEX_LOG_LEVEL
// - ROLODEX_LOG_FORMAT
// - NO_COLOR.
func Load() (*Config, error) {
	cfg := Default()

	f, err := os.Open(Path())
	switch {
	case err == nil:
		defer func() { _ = f.Close() }()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	// .env only fills variables that are not already set
	_ = godotenv.Load()

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("ROLODEX_API_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("ROLODEX_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ROLODEX_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if os.Getenv("NO_COLOR") != "" {
		cfg.NoColor = true
	}

	for name, dst := range map[string]*Duration{
		"ROLODEX_TIMEOUT":    &cfg.Timeout,
		"ROLODEX_DEBOUNCE":   &cfg.DebounceDelay,
		"ROLODEX_STALE_TIME": &cfg.StaleTime,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		*dst = Duration(d)
	}

	for name, dst := range map[string]*int{
		"ROLODEX_PAGE_SIZE":    &cfg.PageSize,
		"ROLODEX_SEARCH_LIMIT": &cfg.SearchLimit,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		*dst = n
	}
	return nil
}

// applyDefaults fills zero or invalid fields.
func (c *Config) applyDefaults() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = Duration(DefaultTimeout)
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.SearchLimit <= 0 {
		c.SearchLimit = DefaultSearchLimit
	}
	if c.DebounceDelay <= 0 {
		c.DebounceDelay = Duration(DefaultDebounceDelay)
	}
	if c.StaleTime < 0 {
		c.StaleTime = 0
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Save persists the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(Dir(), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(Path(), data, 0600)
}

// Duration is a time.Duration that reads and writes as "10s" in JSON. Plain
// numbers are taken as nanoseconds.
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid duration %s", data)
	}
	*d = Duration(n)
	return nil
}
