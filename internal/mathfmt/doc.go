// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mathfmt prepares bot-authored math text for display.
//
// Two stages are involved:
//
//   - Format rewrites raw backend text once: `$...$` spans become `\(...\)`
//     inline-math delimiters and a fixed symbol table (sqrt, ^2, ^3, ->,
//     >=, <=, !=) is substituted literally everywhere in the text.
//   - Typesetter turns formatted text into styled terminal output using
//     glamour. Inline-math spans are shown as highlighted code spans. When
//     rendering fails the caller shows Fallback(raw) instead.
//
// # Usage
//
//	formatted := mathfmt.Format("sqrt(16) = 4 and $x^2 >= 0$")
//	ts, _ := mathfmt.NewTypesetter(mathfmt.TypesetterOptions{Width: 80})
//	out, err := ts.Typeset(ctx, formatted)
//	if err != nil {
//	    out = mathfmt.Fallback(raw)
//	}
//
// Format is not idempotent. Apply it exactly once per raw message.
package mathfmt
