// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build windows
// +build windows

package capture

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// findFFmpegExecutable resolves ffmpeg.exe on Windows.
func findFFmpegExecutable(configured string) (string, error) {
	if configured != "" {
		return exec.LookPath(configured)
	}

	if path, err := exec.LookPath("ffmpeg.exe"); err == nil {
		return path, nil
	}

	possiblePaths := []string{
		`C:\ffmpeg\bin\ffmpeg.exe`,
		`C:\Program Files\ffmpeg\bin\ffmpeg.exe`,
	}
	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		possiblePaths = append(possiblePaths,
			filepath.Join(localAppData, "Microsoft", "WinGet", "Links", "ffmpeg.exe"))
	}
	if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
		possiblePaths = append(possiblePaths,
			filepath.Join(userProfile, "scoop", "shims", "ffmpeg.exe"))
	}

	for _, p := range possiblePaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("ffmpeg.exe not found in PATH or common installation directories. " +
		"Install ffmpeg or set camera.ffmpeg_path")
}

// defaultDevice is the usual name of a built-in laptop camera.
func defaultDevice() string {
	return "Integrated Camera"
}

// inputArgs builds the dshow input options.
func inputArgs(device, format string, cons Constraints) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-f", "dshow"}
	if format != "" {
		args = append(args, "-vcodec", format)
	}
	if size := videoSize(cons); size != "" {
		args = append(args, "-video_size", size)
	}
	if !strings.HasPrefix(device, "video=") {
		device = "video=" + device
	}
	return append(args, "-i", device)
}
