// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation turns user input and backend replies into transcript
// messages.
//
// The Controller owns the transcript and the loading indicator. It never
// touches the terminal itself; everything visible goes through a View. All
// Controller methods except Dispatch must be called from the single event
// loop that owns the View (the Bubble Tea Update loop, or a REPL loop).
//
// A submit is split in three so the network call can run off the loop:
//
//	req, ok := ctrl.SubmitText(input) // user message, indicator shown
//	if !ok {
//	    return // blank input, or a request is outstanding
//	}
//	res := ctrl.Dispatch(ctx, req)    // backend call, any goroutine
//	ctrl.Resolve(res)                 // indicator hidden, bot message appended
//
// Synchronous drivers can call Send, which is Dispatch followed by Resolve.
//
// Clear empties the transcript but not the request pipeline: the
// controller stays busy until the outstanding Result is resolved, and that
// Result is dropped rather than shown under the next question.
package conversation
