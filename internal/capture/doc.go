// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package capture implements the camera workflow used to photograph math
// problems.
//
// A Controller walks one Session through three phases:
//
//	Idle --open--> Previewing --capture--> Captured --send--> Idle
//	                   ^                      |
//	                   +-------retake---------+
//
// close returns to Idle from any phase. The camera Stream is held only
// while Previewing or Captured and is released on every transition back to
// Idle, including a failed open.
//
// Cameras are pluggable: FFmpegCamera reads a live MJPEG feed from an
// ffmpeg subprocess, FileCamera serves a still image from disk.
package capture
