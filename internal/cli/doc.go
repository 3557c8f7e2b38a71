// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the mathly command line.
//
// Running mathly with no subcommand starts the full-screen chat. The
// subcommands cover scripted and line-mode use:
//
//	mathly                       # full-screen chat
//	mathly ask "solve 2x+3=7"    # one question, one answer
//	mathly chat                  # line-mode chat with history
//	mathly snap --image hw.jpg   # send a photo of a problem
//	mathly calc "2^10"           # evaluate an expression
//	mathly formula geometry      # look up a formula
//	mathly config show|path|init # inspect or create the config file
//	mathly version
//
// Global flags (--config, --backend, --image, --log-level) override the
// config file for one run. Answers are typeset with glamour when stdout is
// a terminal and printed as plain text otherwise.
package cli
