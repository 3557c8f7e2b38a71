// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mathfmt prepares bot-authored math text for display.
package mathfmt

import (
	"regexp"
	"strings"
)

// InlineOpen and InlineClose are the typesetter's native inline-math delimiters.
const (
	InlineOpen  = `\(`
	InlineClose = `\)`
)

// dollarSpan matches a single-dollar inline math span.
var dollarSpan = regexp.MustCompile(`\$([^$]+)\$`)

// Symbol is one literal substitution applied by Format.
type Symbol struct {
	From string
	To   string
}

// Symbols is the substitution table, applied in order.
// The replacements are literal and unconditional: they also fire in prose
// ("cost->benefit") and inside inline-math spans.
var Symbols = []Symbol{
	{"sqrt", "√"},
	{"^2", "²"},
	{"^3", "³"},
	{"->", "→"},
	{">=", "≥"},
	{"<=", "≤"},
	{"!=", "≠"},
}

// symbolReplacer applies Symbols in a single pass. No replacement output
// contains any of the keys, so this matches applying them one by one.
var symbolReplacer = newSymbolReplacer(Symbols)

func newSymbolReplacer(table []Symbol) *strings.Replacer {
	pairs := make([]string, 0, len(table)*2)
	for _, s := range table {
		pairs = append(pairs, s.From, s.To)
	}
	return strings.NewReplacer(pairs...)
}

// Format converts raw bot text into typesetter input.
func Format(text string) string {
	text = dollarSpan.ReplaceAllString(text, InlineOpen+"$1"+InlineClose)
	return symbolReplacer.Replace(text)
}

// FormatAll formats every element of lines.
func FormatAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = Format(line)
	}
	return out
}
