// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the Mathly math assistant API.
//
// The backend is an external service; this package only consumes it.
//
// # Endpoints
//
//   - POST /api/chat      {"input": "..."}      -> Reply
//   - POST /api/image     {"image": "data:..."} -> Reply
//   - POST /api/calculate {"expression": "..."} -> {"result": ...} | {"error": "..."}
//   - GET  /api/formula/<category>[/<topic>]    -> {"formula": "..."}
//
// # Errors
//
// Every failure is a *ClientError classified by ErrorType:
//
//   - ErrTypeUnreachable: transport failure or a non-2xx status
//   - ErrTypeBackend: the body carried a structured "error" field
//   - ErrTypeMalformed: the body could not be decoded, or carried neither
//     a non-empty "response" nor an "error"
//
// Check the class with errors.Is against the sentinels:
//
//	reply, err := client.Chat(ctx, "solve 2x + 3 = 7")
//	switch {
//	case errors.Is(err, backend.ErrUnreachable):
//	case errors.Is(err, backend.ErrMalformed):
//	}
//
// No request timeout is applied unless ClientConfig.Timeout is set.
package backend
