// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the Mathly math assistant API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// Endpoint paths.
const (
	PathChat      = "/api/chat"
	PathImage     = "/api/image"
	PathCalculate = "/api/calculate"
	PathFormula   = "/api/formula"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://localhost:5001)
	BaseURL string

	// Timeout for a whole request. Zero means no timeout: the call
	// resolves only on network-layer success or failure.
	Timeout time.Duration

	// UserAgent sent with every request (default: mathly-tui)
	UserAgent string
}

// DefaultBaseURL is where the Mathly backend listens by default.
const DefaultBaseURL = "http://localhost:5001"

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   DefaultBaseURL,
		UserAgent: "mathly-tui",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the Mathly backend.
//
// The Client is safe for concurrent use; the base URL may be changed while
// requests are in flight (config hot reload).
//
// Example:
//
//	client := backend.NewClient()
//	reply, err := client.Chat(ctx, "differentiate x^3")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(reply.Response)
type Client struct {
	mu         sync.RWMutex
	config     ClientConfig
	httpClient *http.Client
}

// NewClient creates a new client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config

	// Fill in defaults for any zero values
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "mathly-tui"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// BaseURL returns the current base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.BaseURL
}

// SetBaseURL changes the base URL used by subsequent requests.
func (c *Client) SetBaseURL(base string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if base == "" {
		base = DefaultBaseURL
	}
	c.config.BaseURL = strings.TrimRight(base, "/")
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// CheckRunning verifies that the backend answers HTTP at its base URL.
func (c *Client) CheckRunning(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL()+"/", nil)
	if err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: "backend is not running", Cause: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode >= http.StatusInternalServerError {
		return &ClientError{
			Type:    ErrTypeUnreachable,
			Message: "unexpected status from backend: " + resp.Status,
			Status:  resp.StatusCode,
		}
	}
	return nil
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// Chat sends a text question to /api/chat.
func (c *Client) Chat(ctx context.Context, input string) (*Reply, error) {
	return c.reply(ctx, PathChat, ChatRequest{Input: input})
}

// Image sends a data-URL encoded picture to /api/image.
func (c *Client) Image(ctx context.Context, dataURL string) (*Reply, error) {
	return c.reply(ctx, PathImage, ImageRequest{Image: dataURL})
}

// reply posts body to path and classifies the Reply.
func (c *Client) reply(ctx context.Context, path string, body any) (*Reply, error) {
	var result Reply
	if err := c.postJSON(ctx, path, body, &result); err != nil {
		return nil, err
	}

	switch {
	case result.Response != "":
		return &result, nil
	case result.Error != "":
		return nil, &ClientError{Type: ErrTypeBackend, Message: "backend reported an error", Detail: result.Error}
	default:
		return nil, &ClientError{Type: ErrTypeMalformed, Message: "response has neither response nor error"}
	}
}

// Calculate evaluates an expression with /api/calculate.
func (c *Client) Calculate(ctx context.Context, expression string) (string, error) {
	var result CalculateResponse
	if err := c.postJSON(ctx, PathCalculate, CalculateRequest{Expression: expression}, &result); err != nil {
		return "", err
	}
	if result.Error != "" {
		return "", &ClientError{Type: ErrTypeBackend, Message: "backend reported an error", Detail: result.Error}
	}
	if len(result.Result) == 0 {
		return "", &ClientError{Type: ErrTypeMalformed, Message: "response has neither result nor error"}
	}
	return result.ResultString(), nil
}

// Formula looks up a formula by category and optional topic.
func (c *Client) Formula(ctx context.Context, category, topic string) (string, error) {
	path := PathFormula + "/" + url.PathEscape(category)
	if topic != "" {
		path += "/" + url.PathEscape(topic)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL()+path, nil)
	if err != nil {
		return "", &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	c.setHeaders(req)

	var result FormulaResponse
	if err := c.do(req, &result); err != nil {
		return "", err
	}
	if result.Error != "" {
		return "", &ClientError{Type: ErrTypeBackend, Message: "backend reported an error", Detail: result.Error}
	}
	if result.Formula == "" {
		return "", &ClientError{Type: ErrTypeMalformed, Message: "response has no formula"}
	}
	return result.Formula, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

func (c *Client) setHeaders(req *http.Request) {
	c.mu.RLock()
	ua := c.config.UserAgent
	c.mu.RUnlock()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", ua)
}

// postJSON marshals body, posts it to path and decodes the response into out.
func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL()+path, bytes.NewReader(payload))
	if err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)

	return c.do(req, out)
}

// do executes req. Transport failures and non-2xx statuses are
// ErrTypeUnreachable; undecodable bodies are ErrTypeMalformed.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &ClientError{
			Type:    ErrTypeUnreachable,
			Message: fmt.Sprintf("%s %s failed: %s", req.Method, req.URL.Path, resp.Status),
			Status:  resp.StatusCode,
		}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeMalformed, Message: "failed to decode response", Status: resp.StatusCode, Cause: err}
	}
	return nil
}
