// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the Mathly math assistant API.
package backend

import (
	"encoding/json"
	"strings"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatRequest is the request body for /api/chat.
type ChatRequest struct {
	Input string `json:"input"`
}

// ImageRequest is the request body for /api/image.
type ImageRequest struct {
	Image string `json:"image"` // data URL, e.g. "data:image/jpeg;base64,..."
}

// CalculateRequest is the request body for /api/calculate.
type CalculateRequest struct {
	Expression string `json:"expression"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// Reply is the response shape shared by /api/chat and /api/image.
type Reply struct {
	Response string   `json:"response,omitempty"`
	Steps    []string `json:"steps,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// HasSteps reports whether the reply carries solution steps.
func (r *Reply) HasSteps() bool {
	return len(r.Steps) > 0
}

// CalculateResponse is the response from /api/calculate.
// The backend returns numbers or strings, so Result is kept raw.
type CalculateResponse struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// ResultString renders Result for display: JSON strings are unquoted,
// everything else is shown as-is.
func (c *CalculateResponse) ResultString() string {
	if len(c.Result) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(c.Result, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(c.Result))
}

// FormulaResponse is the response from /api/formula.
type FormulaResponse struct {
	Formula string `json:"formula"`
	Error   string `json:"error,omitempty"`
}
