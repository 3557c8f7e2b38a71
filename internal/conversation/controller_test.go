// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jeranaias/mathly-tui/internal/backend"
	"github.com/jeranaias/mathly-tui/internal/model"
)

// recordingView logs every call in order.
type recordingView struct {
	events []string
	msgs   []*model.Message
	resets int
}

func (v *recordingView) AppendMessage(m *model.Message) {
	v.events = append(v.events, "append:"+string(m.Sender))
	v.msgs = append(v.msgs, m)
}
func (v *recordingView) UpdateMessage(m *model.Message) { v.events = append(v.events, "update") }
func (v *recordingView) ShowIndicator()                 { v.events = append(v.events, "show") }
func (v *recordingView) HideIndicator()                 { v.events = append(v.events, "hide") }
func (v *recordingView) ClearInput()                    { v.events = append(v.events, "clear") }
func (v *recordingView) ScrollToBottom()                { v.events = append(v.events, "scroll") }
func (v *recordingView) Reset()                         { v.resets++; v.msgs = nil }

// withoutScroll drops scroll events so orderings are easier to read.
func (v *recordingView) withoutScroll() []string {
	var out []string
	for _, e := range v.events {
		if e != "scroll" {
			out = append(out, e)
		}
	}
	return out
}

// fakeBackend answers with canned values and counts calls.
type fakeBackend struct {
	reply     *backend.Reply
	err       error
	chatCalls []string
	imgCalls  []string
}

func (f *fakeBackend) Chat(ctx context.Context, input string) (*backend.Reply, error) {
	f.chatCalls = append(f.chatCalls, input)
	return f.reply, f.err
}

func (f *fakeBackend) Image(ctx context.Context, dataURL string) (*backend.Reply, error) {
	f.imgCalls = append(f.imgCalls, dataURL)
	return f.reply, f.err
}

func newTestController(b Backend) (*Controller, *recordingView) {
	v := &recordingView{}
	return New(b, v, zap.NewNop()), v
}

// =============================================================================
// SUBMIT TESTS
// =============================================================================

func TestSubmitText_BlankInputIgnored(t *testing.T) {
	inputs := []string{"", " ", "\t\n", "      ", " "}
	for _, in := range inputs {
		fb := &fakeBackend{}
		c, v := newTestController(fb)

		req, ok := c.SubmitText(in)

		assert.False(t, ok, "input %q", in)
		assert.Equal(t, Request{}, req)
		assert.Empty(t, v.events, "input %q touched the view", in)
		assert.Zero(t, c.Conversation().Count())
		assert.False(t, c.Busy())
		assert.Empty(t, fb.chatCalls)
	}
}

func TestSubmitText_TrimsAndNormalizes(t *testing.T) {
	c, v := newTestController(&fakeBackend{})

	// "e" + combining acute becomes a single "é" under NFC.
	req, ok := c.SubmitText("  café = 2x  ")
	require.True(t, ok)

	assert.Equal(t, Request{Kind: KindText, Payload: "caf\u00e9 = 2x"}, req)
	require.Len(t, v.msgs, 1)
	assert.Equal(t, model.SenderUser, v.msgs[0].Sender)
	assert.Equal(t, "caf\u00e9 = 2x", v.msgs[0].Text)
	assert.Equal(t, []string{"append:user", "clear", "show"}, v.withoutScroll())
	assert.True(t, c.Busy())
}

func TestSubmitImage_UsesPlaceholder(t *testing.T) {
	fb := &fakeBackend{reply: &backend.Reply{Response: "I see 2+2"}}
	c, v := newTestController(fb)

	req, ok := c.SubmitImage("data:image/jpeg;base64,AAAA")
	require.True(t, ok)
	assert.Equal(t, KindImage, req.Kind)
	assert.Equal(t, ImagePlaceholder, v.msgs[0].Text)

	c.Resolve(c.Dispatch(context.Background(), req))
	assert.Equal(t, []string{"data:image/jpeg;base64,AAAA"}, fb.imgCalls)
	assert.Empty(t, fb.chatCalls)

	_, ok = c.SubmitImage("")
	assert.False(t, ok)
}

func TestSubmit_IgnoredWhileBusy(t *testing.T) {
	c, _ := newTestController(&fakeBackend{})

	_, ok := c.SubmitText("first")
	require.True(t, ok)
	_, ok = c.SubmitText("second")
	assert.False(t, ok)

	assert.Equal(t, 1, c.Conversation().Count())
	shown, _ := c.IndicatorCounts()
	assert.Equal(t, 1, shown)
}

// =============================================================================
// RESOLVE TESTS
// =============================================================================

func TestResolve_IndicatorHiddenBeforeBotMessage(t *testing.T) {
	for _, fb := range []*fakeBackend{
		{reply: &backend.Reply{Response: "4"}},
		{err: &backend.ClientError{Type: backend.ErrTypeUnreachable, Message: "down"}},
	} {
		c, v := newTestController(fb)

		req, ok := c.SubmitText("2+2")
		require.True(t, ok)
		c.Send(context.Background(), req)

		want := []string{"append:user", "clear", "show", "hide", "append:bot"}
		if diff := cmp.Diff(want, v.withoutScroll()); diff != "" {
			t.Errorf("view events mismatch (-want +got):\n%s", diff)
		}
		shown, hidden := c.IndicatorCounts()
		assert.Equal(t, 1, shown)
		assert.Equal(t, 1, hidden)
		assert.False(t, c.Busy())
	}
}

func TestResolve_StepsAppendedToBotMessage(t *testing.T) {
	fb := &fakeBackend{reply: &backend.Reply{Response: "x=2", Steps: []string{"step1", "step2"}}}
	c, v := newTestController(fb)

	req, _ := c.SubmitText("2x = 4")
	msg := c.Send(context.Background(), req)

	assert.Equal(t, "x=2", msg.Text)
	assert.True(t, msg.HasSteps)
	assert.Equal(t, []string{"append:user", "clear", "show", "hide", "append:bot", "update"}, v.withoutScroll())

	rendered := msg.Markdown()
	i1 := strings.Index(rendered, "Step 1")
	i2 := strings.Index(rendered, "Step 2")
	assert.True(t, strings.Index(rendered, "x=2") < i1, "answer before steps: %q", rendered)
	assert.True(t, i1 >= 0 && i2 > i1, "steps in order: %q", rendered)
	assert.Contains(t, rendered, "step1")
	assert.Contains(t, rendered, "step2")
}

func TestResolve_EveryMutationScrolls(t *testing.T) {
	fb := &fakeBackend{reply: &backend.Reply{Response: "x=2", Steps: []string{"a"}}}
	c, v := newTestController(fb)

	req, _ := c.SubmitText("q")
	c.Send(context.Background(), req)

	for i, e := range v.events {
		if e == "append:user" || e == "append:bot" || e == "update" || e == "show" || e == "hide" {
			require.Less(t, i+1, len(v.events), "%s is last event", e)
			assert.Equal(t, "scroll", v.events[i+1], "event after %s", e)
		}
	}
}

func TestResolve_Apologies(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unreachable", &backend.ClientError{Type: backend.ErrTypeUnreachable, Message: "dial tcp: refused"}, ApologyUnreachable},
		{"backend", &backend.ClientError{Type: backend.ErrTypeBackend, Message: "backend reported an error", Detail: "No input provided"}, "Sorry, I encountered an error: No input provided"},
		{"malformed", &backend.ClientError{Type: backend.ErrTypeMalformed, Message: "bad"}, ApologyMalformed},
		{"untyped", errors.New("boom"), ApologyUnreachable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, v := newTestController(&fakeBackend{err: tc.err})
			req, _ := c.SubmitText("q")
			msg := c.Send(context.Background(), req)

			assert.Equal(t, tc.want, msg.Text)
			assert.True(t, msg.IsError)
			assert.False(t, msg.HasSteps)
			assert.Equal(t, 2, c.Conversation().Count())
			assert.Same(t, msg, c.Conversation().Last())
			assert.NotContains(t, v.events, "update")
		})
	}
}

func TestResolve_NilReplyIsMalformed(t *testing.T) {
	c, _ := newTestController(&fakeBackend{})
	req, _ := c.SubmitText("q")
	msg := c.Resolve(Result{Request: req})
	assert.Equal(t, ApologyMalformed, msg.Text)
}

func TestResolve_BotTextIsFormattedOnce(t *testing.T) {
	c, _ := newTestController(&fakeBackend{reply: &backend.Reply{Response: "sqrt(4) = 2"}})
	req, _ := c.SubmitText("q")
	msg := c.Send(context.Background(), req)

	assert.Equal(t, "sqrt(4) = 2", msg.Text)
	assert.Contains(t, msg.Formatted, "√(4) = 2")
}

func TestSend_NonSuccessStatusEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"response":"x=2","steps":["step1"]}`)
	}))
	defer srv.Close()

	core, logs := observer.New(zap.WarnLevel)
	v := &recordingView{}
	c := New(backend.NewClientWithConfig(&backend.ClientConfig{BaseURL: srv.URL}), v, zap.New(core))

	req, _ := c.SubmitText("2x = 4")
	msg := c.Send(context.Background(), req)

	assert.Equal(t, ApologyUnreachable, msg.Text)
	assert.False(t, msg.HasSteps)
	assert.NotContains(t, msg.Markdown(), model.StepsHeading)
	assert.Equal(t, 2, c.Conversation().Count())
	assert.Same(t, msg, c.Conversation().Last())
	assert.Equal(t, 1, logs.FilterMessage("backend request failed").Len())
}

// =============================================================================
// OTHER ENTRY TESTS
// =============================================================================

func TestReportCameraFailure(t *testing.T) {
	c, v := newTestController(&fakeBackend{})
	msg := c.ReportCameraFailure(errors.New("permission denied"))

	assert.Equal(t, ApologyCamera, msg.Text)
	assert.Equal(t, []string{"append:bot"}, v.withoutScroll())
	assert.NotContains(t, msg.Text, "permission denied")
}

func TestFail_UsesApology(t *testing.T) {
	c, v := newTestController(&fakeBackend{})
	msg := c.Fail(&backend.ClientError{Type: backend.ErrTypeBackend, Detail: "division by zero"})

	assert.True(t, msg.IsError)
	assert.Equal(t, ApologyBackendError+"division by zero", msg.Text)
	assert.Equal(t, []string{"append:bot"}, v.withoutScroll())
	assert.False(t, c.Busy())
}

func TestGreetPostEcho(t *testing.T) {
	c, v := newTestController(&fakeBackend{})
	c.Greet()
	c.Echo("/calc 2+2")
	c.Post("4")

	hist := c.Conversation().Messages
	require.Len(t, hist, 3)
	assert.Equal(t, Welcome, hist[0].Text)
	assert.Equal(t, model.SenderUser, hist[1].Sender)
	assert.Equal(t, "4", hist[2].Text)
	assert.Equal(t, []string{"append:bot", "append:user", "clear", "append:bot"}, v.withoutScroll())
}

func TestClear_KeepsOutstandingIndicator(t *testing.T) {
	c, v := newTestController(&fakeBackend{reply: &backend.Reply{Response: "late"}})
	req, ok := c.SubmitText("q")
	require.True(t, ok)
	c.Clear()

	assert.Zero(t, c.Conversation().Count())
	assert.Equal(t, 1, v.resets)
	assert.True(t, c.Busy())
	shown, hidden := c.IndicatorCounts()
	assert.Equal(t, 1, shown)
	assert.Equal(t, 0, hidden)

	assert.Nil(t, c.Resolve(c.Dispatch(context.Background(), req)))
	assert.Zero(t, c.Conversation().Count())
	assert.False(t, c.Busy())
	shown, hidden = c.IndicatorCounts()
	assert.Equal(t, 1, shown)
	assert.Equal(t, 1, hidden)
}

func TestClear_ReplyFromBeforeClearNeverLandsUnderNextQuestion(t *testing.T) {
	fb := &fakeBackend{reply: &backend.Reply{Response: "first answer"}}
	c, _ := newTestController(fb)

	reqA, ok := c.SubmitText("question A")
	require.True(t, ok)
	resA := c.Dispatch(context.Background(), reqA)

	c.Clear()
	_, ok = c.SubmitText("question B")
	assert.False(t, ok, "a second request must wait for the first")
	assert.Zero(t, c.Conversation().Count())

	assert.Nil(t, c.Resolve(resA))
	assert.False(t, c.Busy())
	assert.Zero(t, c.Conversation().Count())

	fb.reply = &backend.Reply{Response: "second answer"}
	reqB, ok := c.SubmitText("question B")
	require.True(t, ok)
	msg := c.Resolve(c.Dispatch(context.Background(), reqB))
	require.NotNil(t, msg)

	hist := c.Conversation().Messages
	require.Len(t, hist, 2)
	assert.Equal(t, "question B", hist[0].Text)
	assert.Equal(t, "second answer", hist[1].Text)
	shown, hidden := c.IndicatorCounts()
	assert.Equal(t, 2, shown)
	assert.Equal(t, 2, hidden)
}

func TestNew_NilViewAndLogger(t *testing.T) {
	c := New(&fakeBackend{reply: &backend.Reply{Response: "ok"}}, nil, nil)
	req, ok := c.SubmitText("q")
	require.True(t, ok)
	assert.Equal(t, "ok", c.Send(context.Background(), req).Text)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "text", KindText.String())
	assert.Equal(t, "image", KindImage.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}
