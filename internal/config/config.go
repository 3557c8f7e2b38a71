// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/mathly-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete mathly configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Backend BackendConfig `toml:"backend" json:"backend"`
	Camera  CameraConfig  `toml:"camera" json:"camera"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// BackendConfig locates the Mathly API.
type BackendConfig struct {
	// URL is the base URL, e.g. http://localhost:5001
	URL string `toml:"url" json:"url"`
	// RequestTimeout bounds a whole request; 0 disables the timeout
	RequestTimeout Duration `toml:"request_timeout" json:"request_timeout"`
}

// CameraConfig configures photo capture.
type CameraConfig struct {
	// Device is the capture device; empty picks the platform default
	Device string `toml:"device" json:"device"`
	// FFmpegPath overrides the ffmpeg lookup
	FFmpegPath string `toml:"ffmpeg_path" json:"ffmpeg_path"`
	// Width and Height are the preferred resolution
	Width  int `toml:"width" json:"width"`
	Height int `toml:"height" json:"height"`
	// Facing is "environment" (back camera) or "user"
	Facing string `toml:"facing" json:"facing"`
	// InputFormat is the device pixel format, e.g. "mjpeg"
	InputFormat string `toml:"input_format" json:"input_format"`
	// PreviewFPS caps preview refreshes
	PreviewFPS int `toml:"preview_fps" json:"preview_fps"`
	// StartTimeout bounds the wait for the first frame
	StartTimeout Duration `toml:"start_timeout" json:"start_timeout"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is "dark", "light", "ascii" or "auto"
	Theme string `toml:"theme" json:"theme"`
	// WordWrap is the typesetting width; 0 follows the terminal
	WordWrap int `toml:"word_wrap" json:"word_wrap"`
	// AltScreen runs the TUI in the alternate screen buffer
	AltScreen bool `toml:"alt_screen" json:"alt_screen"`
}

// LogConfig configures the log file.
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `toml:"level" json:"level"`
	// File is the log path; empty means ~/.mathly/mathly.log
	File string `toml:"file" json:"file"`
}

// Duration is a time.Duration written as "30s" in both TOML and JSON.
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" || s == "0" {
		d.Duration = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Backend: BackendConfig{
			URL: "http://localhost:5001",
		},

		Camera: CameraConfig{
			Width:        1280,
			Height:       720,
			Facing:       "environment",
			PreviewFPS:   10,
			StartTimeout: Duration{10 * time.Second},
		},

		UI: UIConfig{
			Theme:     "auto",
			AltScreen: true,
		},

		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

var (
	pathOverride   string
	pathOverrideMu sync.RWMutex
)

// SetPath makes Load read path instead of the default locations.
// An empty path restores the defaults.
func SetPath(path string) {
	pathOverrideMu.Lock()
	defer pathOverrideMu.Unlock()
	pathOverride = path
}

func overridePath() string {
	pathOverrideMu.RLock()
	defer pathOverrideMu.RUnlock()
	return pathOverride
}

// ConfigDir returns the mathly configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".mathly"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ActivePath returns the file Load would read: the SetPath override, the
// TOML file, the JSON file if only it exists, or the TOML path if neither
// exists yet.
func ActivePath() (string, error) {
	if p := overridePath(); p != "" {
		return p, nil
	}
	tomlPath, err := ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	jsonPath, err := ConfigPathJSON()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(jsonPath); err == nil {
		return jsonPath, nil
	}
	return tomlPath, nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the configuration with Read and validates it.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Read loads configuration from the config file, falling back to defaults
// when no file exists. Environment overrides are applied last. The result
// is not validated, so callers can apply further overrides first.
func Read() (*Config, error) {
	path, err := ActivePath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		if overridePath() != "" {
			return nil, fmt.Errorf("config file %s: %w", path, statErr)
		}
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, nil
	}
	return readPath(path)
}

// LoadTOML loads configuration from a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file into cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation. Missing keys keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg, err := readPath(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func readPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	return cfg, nil
}

// SetDefaults fills zero values that would otherwise be invalid.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Backend.URL == "" {
		c.Backend.URL = defaults.Backend.URL
	}
	if c.Camera.Width == 0 {
		c.Camera.Width = defaults.Camera.Width
	}
	if c.Camera.Height == 0 {
		c.Camera.Height = defaults.Camera.Height
	}
	if c.Camera.Facing == "" {
		c.Camera.Facing = defaults.Camera.Facing
	}
	if c.Camera.PreviewFPS == 0 {
		c.Camera.PreviewFPS = defaults.Camera.PreviewFPS
	}
	if c.Camera.StartTimeout.Duration == 0 {
		c.Camera.StartTimeout = defaults.Camera.StartTimeout
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the active config file.
func Save(cfg *Config) error {
	path, err := ActivePath()
	if err != nil {
		return err
	}
	if strings.HasSuffix(path, ".json") {
		return SaveJSON(cfg, path)
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to a TOML file with a header comment.
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# mathly configuration file\n")
	b.WriteString("# Durations use Go syntax: 30s, 2m. request_timeout = \"0s\" waits forever.\n\n")
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return writeConfigFile(path, []byte(b.String()))
}

// SaveJSON writes the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return writeConfigFile(path, data)
}

func writeConfigFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "backend.url",
			Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port]", c.Backend.URL),
		})
	}
	if c.Backend.RequestTimeout.Duration < 0 {
		errs = append(errs, ValidationError{Field: "backend.request_timeout", Message: "must not be negative"})
	}

	if c.Camera.Width < 0 || c.Camera.Height < 0 {
		errs = append(errs, ValidationError{Field: "camera.width/height", Message: "must not be negative"})
	}
	if c.Camera.Facing != "" && c.Camera.Facing != "environment" && c.Camera.Facing != "user" {
		errs = append(errs, ValidationError{
			Field:   "camera.facing",
			Message: fmt.Sprintf("invalid facing '%s', must be one of: environment, user", c.Camera.Facing),
		})
	}
	if c.Camera.PreviewFPS < 0 || c.Camera.PreviewFPS > 60 {
		errs = append(errs, ValidationError{Field: "camera.preview_fps", Message: "must be between 0 and 60"})
	}
	if c.Camera.StartTimeout.Duration < 0 {
		errs = append(errs, ValidationError{Field: "camera.start_timeout", Message: "must not be negative"})
	}

	validThemes := map[string]bool{"": true, "auto": true, "dark": true, "light": true, "ascii": true, "plain": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light, ascii", c.UI.Theme),
		})
	}
	if c.UI.WordWrap < 0 {
		errs = append(errs, ValidationError{Field: "ui.word_wrap", Message: "must not be negative"})
	}

	validLevels := map[string]bool{"": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - MATHLY_BACKEND_URL: overrides backend.url
//   - MATHLY_LOG_LEVEL: overrides log.level
//   - MATHLY_CAMERA_DEVICE: overrides camera.device
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv("MATHLY_BACKEND_URL"); u != "" {
		c.Backend.URL = u
	}
	if level := os.Getenv("MATHLY_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if device := os.Getenv("MATHLY_CAMERA_DEVICE"); device != "" {
		c.Camera.Device = device
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// String returns the config as TOML for display.
func (c *Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
