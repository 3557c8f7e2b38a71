// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for mathly.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - BackendConfig: where the Mathly API lives
//   - CameraConfig: capture device and ffmpeg settings
//   - UIConfig, LogConfig: terminal and logging preferences
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (MATHLY_*)
//   - ~/.mathly/config.toml
//   - ~/.mathly/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := backend.NewClientWithConfig(&backend.ClientConfig{
//	    BaseURL: cfg.Backend.URL,
//	    Timeout: cfg.Backend.RequestTimeout.Duration,
//	})
//
// Read returns the same configuration without validating it, for callers
// that apply command-line overrides before calling Validate.
//
// A running TUI follows edits to the file through a Watcher.
package config
