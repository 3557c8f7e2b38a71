// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the Mathly math assistant API.
package backend

import "errors"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnreachable
	ErrTypeBackend
	ErrTypeMalformed
)

// String returns the taxonomy name of the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeUnreachable:
		return "NetworkUnreachable"
	case ErrTypeBackend:
		return "BackendError"
	case ErrTypeMalformed:
		return "MalformedResponse"
	default:
		return "Unknown"
	}
}

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	// Detail is the backend-supplied error text (ErrTypeBackend only)
	Detail string
	// Status is the HTTP status code, when a response was received
	Status int
	Cause  error
}

func (e *ClientError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches any *ClientError of the same type, so errors.Is works against
// the sentinels regardless of message or cause.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// Sentinel errors for easy checking.
var (
	ErrUnreachable = &ClientError{Type: ErrTypeUnreachable, Message: "backend unreachable"}
	ErrMalformed   = &ClientError{Type: ErrTypeMalformed, Message: "malformed response"}
)

// TypeOf returns the ErrorType of err, or ErrTypeUnknown.
func TypeOf(err error) ErrorType {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type
	}
	return ErrTypeUnknown
}

// DetailOf returns the backend-supplied detail text of err, if any.
func DetailOf(err error) string {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Detail
	}
	return ""
}
