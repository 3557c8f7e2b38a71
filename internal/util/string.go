// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the mathly packages.
package util

import "github.com/mattn/go-runewidth"

// UNICODE: math replies are full of multi-byte symbols (√, ², →, ≤) and the
// occasional CJK or emoji, so every width computation goes through runewidth.

// TruncateWidth truncates a string to a maximum display width.
// If the string is truncated, "..." is appended within the width budget.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
