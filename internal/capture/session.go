// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package capture

import (
	"errors"
	"fmt"
)

// Phase is the state of a capture session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePreviewing
	PhaseCaptured
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhasePreviewing:
		return "Previewing"
	case PhaseCaptured:
		return "Captured"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Session is the state of one capture interaction.
type Session struct {
	// Stream is non-nil exactly when Phase is Previewing or Captured.
	Stream Stream

	// Frame is the captured JPEG data URL, set only while Captured.
	Frame string

	Phase Phase
}

// ErrInvalidTransition is matched by actions attempted in the wrong phase.
var ErrInvalidTransition = errors.New("invalid capture transition")

// TransitionError records a rejected action.
type TransitionError struct {
	Action string
	From   Phase
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Action, e.From)
}

// Is makes every TransitionError match ErrInvalidTransition.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
