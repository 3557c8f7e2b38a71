// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !windows
// +build !windows

package capture

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// findFFmpegExecutable resolves the ffmpeg binary on Unix. A configured
// path wins; otherwise PATH and the common install locations are searched.
func findFFmpegExecutable(configured string) (string, error) {
	if configured != "" {
		return exec.LookPath(configured)
	}

	if path, err := exec.LookPath("ffmpeg"); err == nil {
		return path, nil
	}

	possiblePaths := []string{
		"/usr/local/bin/ffmpeg",
		"/usr/bin/ffmpeg",
		"/opt/homebrew/bin/ffmpeg",
		"/snap/bin/ffmpeg",
	}
	if home := os.Getenv("HOME"); home != "" {
		possiblePaths = append(possiblePaths,
			filepath.Join(home, ".local", "bin", "ffmpeg"),
			filepath.Join(home, "bin", "ffmpeg"),
		)
	}

	for _, p := range possiblePaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("ffmpeg not found in PATH or common installation directories. " +
		"Install ffmpeg or set camera.ffmpeg_path")
}

func defaultDevice() string {
	if runtime.GOOS == "darwin" {
		return "0"
	}
	return "/dev/video0"
}

// inputArgs builds the ffmpeg input options for the platform capture API.
func inputArgs(device, format string, cons Constraints) []string {
	var args []string
	if runtime.GOOS == "darwin" {
		args = []string{"-f", "avfoundation", "-framerate", "30"}
	} else {
		args = []string{"-f", "v4l2"}
		if format != "" {
			args = append(args, "-input_format", format)
		}
	}
	if size := videoSize(cons); size != "" {
		args = append(args, "-video_size", size)
	}
	return append([]string{"-hide_banner", "-loglevel", "error"}, append(args, "-i", device)...)
}
