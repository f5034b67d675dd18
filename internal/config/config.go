package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultGapThresholdMinutes is the idle gap after which a new work session starts.
const DefaultGapThresholdMinutes = 30

// Config holds all configurable worklog settings.
type Config struct {
	GapThresholdMinutes int    `json:"gap_threshold_minutes"`
	ReportsDir          string `json:"reports_dir"`
	DefaultFormat       string `json:"default_format"` // "markdown" | "json"
	Model               string `json:"model"`          // Gemini model name
	Timezone            string `json:"timezone"`       // IANA name, "Local" when empty
	Backend             string `json:"backend"`        // "exec" | "gogit"
	// CacheEnabled is a pointer so a project file can turn caching off
	// without every other file having to mention it.
	CacheEnabled *bool  `json:"cache_enabled,omitempty"`
	LogFile      string `json:"log_file,omitempty"`
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	enabled := true
	return Config{
		GapThresholdMinutes: DefaultGapThresholdMinutes,
		ReportsDir:          "reports",
		DefaultFormat:       "markdown",
		Model:               "gemini-2.0-flash",
		Backend:             "exec",
		CacheEnabled:        &enabled,
	}
}

// LoadGlobal reads ~/.config/worklog/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "worklog", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .worklogconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".worklogconfig", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	apply(&result, global)
	apply(&result, project)
	return result
}

// apply copies every set field of src over dst.
func apply(dst *Config, src *Config) {
	if src == nil {
		return
	}
	if src.GapThresholdMinutes != 0 {
		dst.GapThresholdMinutes = src.GapThresholdMinutes
	}
	if src.ReportsDir != "" {
		dst.ReportsDir = src.ReportsDir
	}
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.Timezone != "" {
		dst.Timezone = src.Timezone
	}
	if src.Backend != "" {
		dst.Backend = src.Backend
	}
	if src.CacheEnabled != nil {
		v := *src.CacheEnabled
		dst.CacheEnabled = &v
	}
	if src.LogFile != "" {
		dst.LogFile = src.LogFile
	}
}

// Validate reports settings no command can work with.
func (c Config) Validate() error {
	if c.GapThresholdMinutes <= 0 {
		return fmt.Errorf("%w: gap_threshold_minutes must be positive, got %d", ErrInvalidConfig, c.GapThresholdMinutes)
	}
	switch c.DefaultFormat {
	case "markdown", "json":
	default:
		return fmt.Errorf("%w: default_format must be markdown or json, got %q", ErrInvalidConfig, c.DefaultFormat)
	}
	switch c.Backend {
	case "exec", "gogit":
	default:
		return fmt.Errorf("%w: backend must be exec or gogit, got %q", ErrInvalidConfig, c.Backend)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// GapThreshold returns the session gap as a duration.
func (c Config) GapThreshold() time.Duration {
	return time.Duration(c.GapThresholdMinutes) * time.Minute
}

// Location resolves Timezone, defaulting to the local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q", c.Timezone)
	}
	return loc, nil
}

// CacheOn reports whether the summary cache should be used.
func (c Config) CacheOn() bool {
	return c.CacheEnabled == nil || *c.CacheEnabled
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
