// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("MATHLY_BACKEND_URL", "")
	t.Setenv("MATHLY_LOG_LEVEL", "")
	t.Setenv("MATHLY_CAMERA_DEVICE", "")
	SetPath("")
	t.Cleanup(func() { SetPath("") })
	return home
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:5001", cfg.Backend.URL)
	assert.Zero(t, cfg.Backend.RequestTimeout.Duration)
	assert.Equal(t, 1280, cfg.Camera.Width)
	assert.Equal(t, 720, cfg.Camera.Height)
	assert.Equal(t, "environment", cfg.Camera.Facing)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_TOML(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".mathly")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[backend]
url = "http://mathly.lan:8080"
request_timeout = "45s"

[camera]
device = "/dev/video2"
preview_fps = 5
`), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://mathly.lan:8080", cfg.Backend.URL)
	assert.Equal(t, 45*time.Second, cfg.Backend.RequestTimeout.Duration)
	assert.Equal(t, "/dev/video2", cfg.Camera.Device)
	assert.Equal(t, 5, cfg.Camera.PreviewFPS)
	// Untouched keys keep defaults.
	assert.Equal(t, 1280, cfg.Camera.Width)
	assert.Equal(t, "auto", cfg.UI.Theme)
}

func TestLoad_JSONFallback(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".mathly")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"ui": {"theme": "light"}, "camera": {"start_timeout": "3s"}}`), 0644))

	path, err := ActivePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.json"), path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, 3*time.Second, cfg.Camera.StartTimeout.Duration)
}

func TestLoad_PathOverrideMustExist(t *testing.T) {
	isolate(t)
	SetPath(filepath.Join(t.TempDir(), "nope.toml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[backend]\nurl = \"ftp://nowhere\"\n"), 0644))

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend.url")
}

func TestRead_DefersValidation(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "loud.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"loud\"\n"), 0644))
	SetPath(path)

	cfg, err := Read()
	require.NoError(t, err)
	assert.Equal(t, "loud", cfg.Log.Level)

	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("MATHLY_BACKEND_URL", "https://api.example.test")
	t.Setenv("MATHLY_LOG_LEVEL", "debug")
	t.Setenv("MATHLY_CAMERA_DEVICE", "1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.test", cfg.Backend.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "1", cfg.Camera.Device)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"bad url", func(c *Config) { c.Backend.URL = "localhost:5001" }, "backend.url"},
		{"negative timeout", func(c *Config) { c.Backend.RequestTimeout.Duration = -time.Second }, "backend.request_timeout"},
		{"facing", func(c *Config) { c.Camera.Facing = "sideways" }, "camera.facing"},
		{"fps", func(c *Config) { c.Camera.PreviewFPS = 500 }, "camera.preview_fps"},
		{"theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"level", func(c *Config) { c.Log.Level = "chatty" }, "log.level"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var verrs ValidateErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tc.field, verrs[0].Field)
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	for _, name := range []string{"config.toml", "config.json"} {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			path := filepath.Join(t.TempDir(), "nested", name)
			SetPath(path)

			cfg := Default()
			cfg.Backend.URL = "http://10.0.0.5:5001"
			cfg.Backend.RequestTimeout = Duration{90 * time.Second}
			cfg.UI.WordWrap = 72
			require.NoError(t, Save(cfg))

			got, err := Load()
			require.NoError(t, err)
			assert.Equal(t, cfg, got)
		})
	}
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Duration)

	require.NoError(t, d.UnmarshalText([]byte("0")))
	assert.Zero(t, d.Duration)

	assert.Error(t, d.UnmarshalText([]byte("soon")))

	out, err := Duration{2 * time.Second}.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2s", string(out))
}

func TestString_IsTOML(t *testing.T) {
	s := Default().String()
	assert.Contains(t, s, "[backend]")
	assert.Contains(t, s, `url = "http://localhost:5001"`)
}
