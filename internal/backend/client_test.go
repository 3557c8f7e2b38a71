// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer serves handler and returns a client pointed at it.
func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestNewClientWithConfig_Defaults(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{})
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, "mathly-tui", c.config.UserAgent)
	assert.Zero(t, c.httpClient.Timeout, "no timeout by default")

	c = NewClientWithConfig(nil)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}

func TestSetBaseURL_TrimsSlash(t *testing.T) {
	c := NewClient()
	c.SetBaseURL("http://example.test:9000/")
	assert.Equal(t, "http://example.test:9000", c.BaseURL())

	c.SetBaseURL("")
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestChat_Success(t *testing.T) {
	var gotBody map[string]string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PathChat, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		io.WriteString(w, `{"response":"x=2","steps":["step1","step2"]}`)
	})

	reply, err := c.Chat(context.Background(), "2x = 4")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"input": "2x = 4"}, gotBody)
	assert.Equal(t, "x=2", reply.Response)
	assert.Equal(t, []string{"step1", "step2"}, reply.Steps)
	assert.True(t, reply.HasSteps())
}

func TestImage_SendsImageField(t *testing.T) {
	var gotBody map[string]string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathImage, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		io.WriteString(w, `{"response":"I extracted this math problem: 1+1"}`)
	})

	reply, err := c.Image(context.Background(), "data:image/jpeg;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"image": "data:image/jpeg;base64,AAAA"}, gotBody)
	assert.False(t, reply.HasSteps())
}

func TestChat_ErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantType   ErrorType
		wantDetail string
	}{
		{"structured error", 200, `{"error":"No input provided"}`, ErrTypeBackend, "No input provided"},
		{"neither field", 200, `{"something":"else"}`, ErrTypeMalformed, ""},
		{"empty response string", 200, `{"response":""}`, ErrTypeMalformed, ""},
		{"not json", 200, `<html>oops</html>`, ErrTypeMalformed, ""},
		{"steps wrong type", 200, `{"response":"x","steps":"nope"}`, ErrTypeMalformed, ""},
		{"server error", 500, `{"error":"Error processing image"}`, ErrTypeUnreachable, ""},
		{"bad request", 400, `{"error":"No input provided"}`, ErrTypeUnreachable, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			})

			reply, err := c.Chat(context.Background(), "q")
			require.Error(t, err)
			assert.Nil(t, reply)
			assert.Equal(t, tc.wantType, TypeOf(err), "err = %v", err)
			assert.Equal(t, tc.wantDetail, DetailOf(err))
		})
	}
}

func TestChat_ResponseWinsOverError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"response":"ok","error":"ignored"}`)
	})

	reply, err := c.Chat(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply.Response)
}

func TestChat_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: base})
	_, err := c.Chat(context.Background(), "q")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreachable))
	assert.False(t, errors.Is(err, ErrMalformed))
}

func TestChat_StatusIsRecorded(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Chat(context.Background(), "q")
	var ce *ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, http.StatusBadGateway, ce.Status)
}

func TestChat_ContextCanceled(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Chat(ctx, "q")
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.ErrorIs(t, err, context.Canceled)
}

// =============================================================================
// CALCULATE / FORMULA TESTS
// =============================================================================

func TestCalculate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr ErrorType
	}{
		{"number", `{"result": 42}`, "42", ErrTypeUnknown},
		{"string", `{"result": "Error: division by zero"}`, "Error: division by zero", ErrTypeUnknown},
		{"error", `{"error": "No expression provided"}`, "", ErrTypeBackend},
		{"empty", `{}`, "", ErrTypeMalformed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, PathCalculate, r.URL.Path)
				io.WriteString(w, tc.body)
			})

			got, err := c.Calculate(context.Background(), "6*7")
			if tc.wantErr != ErrTypeUnknown {
				assert.Equal(t, tc.wantErr, TypeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormula_PathEscaping(t *testing.T) {
	var gotPath string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		assert.Equal(t, http.MethodGet, r.Method)
		io.WriteString(w, `{"formula":"circle area: πr²"}`)
	})

	got, err := c.Formula(context.Background(), "geometry", "circle area")
	require.NoError(t, err)
	assert.Equal(t, "circle area: πr²", got)
	assert.Equal(t, "/api/formula/geometry/circle%20area", gotPath)
}

func TestFormula_CategoryOnly(t *testing.T) {
	var gotPath string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		io.WriteString(w, `{"formula":"quadratic: x = (-b ± √(b²-4ac))/2a"}`)
	})

	_, err := c.Formula(context.Background(), "algebra", "")
	require.NoError(t, err)
	assert.Equal(t, "/api/formula/algebra", gotPath)
}

func TestCheckRunning(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html></html>")
	})
	assert.NoError(t, c.CheckRunning(context.Background()))

	down := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	assert.ErrorIs(t, down.CheckRunning(context.Background()), ErrUnreachable)
}

// =============================================================================
// ERROR TYPE TESTS
// =============================================================================

func TestClientError_Message(t *testing.T) {
	err := &ClientError{Type: ErrTypeBackend, Message: "backend reported an error", Detail: "bad"}
	assert.Equal(t, "backend reported an error: bad", err.Error())

	cause := errors.New("dial tcp: refused")
	err = &ClientError{Type: ErrTypeUnreachable, Message: "request failed", Cause: cause}
	assert.True(t, strings.HasSuffix(err.Error(), "refused"))
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "NetworkUnreachable", ErrTypeUnreachable.String())
	assert.Equal(t, "BackendError", ErrTypeBackend.String())
	assert.Equal(t, "MalformedResponse", ErrTypeMalformed.String())
	assert.Equal(t, "Unknown", ErrTypeUnknown.String())
	assert.Equal(t, ErrTypeUnknown, TypeOf(errors.New("plain")))
}
