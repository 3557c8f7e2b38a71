// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/mathly-tui/internal/backend"
	"github.com/jeranaias/mathly-tui/internal/model"
)

// Backend is the part of the backend client the Controller needs.
type Backend interface {
	Chat(ctx context.Context, input string) (*backend.Reply, error)
	Image(ctx context.Context, dataURL string) (*backend.Reply, error)
}

// =============================================================================
// REQUEST / RESULT
// =============================================================================

// Kind selects the backend endpoint of a Request.
type Kind int

const (
	KindText Kind = iota
	KindImage
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Request is a submitted question waiting to be dispatched.
type Request struct {
	Kind    Kind
	Payload string // trimmed text, or image data URL

	epoch uint64
}

// Result is the outcome of dispatching a Request. Exactly one of Reply and
// Err is set.
type Result struct {
	Request Request
	Reply   *backend.Reply
	Err     error
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller mediates between user input, the backend and a View.
type Controller struct {
	conv    *model.Conversation
	view    View
	backend Backend
	logger  *zap.Logger

	// Loading indicator: at most one is live.
	indicator bool
	shown     int
	hidden    int

	// pending is set from submit until the Result is resolved, even when
	// that Result is dropped. epoch advances on Clear; Results submitted
	// in an older epoch are dropped.
	pending bool
	epoch   uint64
}

// New creates a controller. A nil view renders nothing; a nil logger logs
// nothing.
func New(b Backend, v View, logger *zap.Logger) *Controller {
	if v == nil {
		v = Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		conv:    model.NewConversation(),
		view:    v,
		backend: b,
		logger:  logger.Named("conversation"),
	}
}

// Conversation returns the transcript.
func (c *Controller) Conversation() *model.Conversation {
	return c.conv
}

// Busy reports whether a request is waiting for its Result.
func (c *Controller) Busy() bool {
	return c.pending
}

// IndicatorCounts returns how many indicators have been shown and hidden.
func (c *Controller) IndicatorCounts() (shown, hidden int) {
	return c.shown, c.hidden
}

// =============================================================================
// SUBMIT
// =============================================================================

// SubmitText appends the user's question and shows the loading indicator.
// Blank input is ignored: no message, no request. So is input arriving
// while another request is outstanding.
func (c *Controller) SubmitText(input string) (Request, bool) {
	text := strings.TrimSpace(norm.NFC.String(input))
	if text == "" {
		return Request{}, false
	}
	return c.submit(Request{Kind: KindText, Payload: text}, text)
}

// SubmitImage appends the picture placeholder and shows the loading
// indicator. dataURL is sent as-is.
func (c *Controller) SubmitImage(dataURL string) (Request, bool) {
	if dataURL == "" {
		return Request{}, false
	}
	return c.submit(Request{Kind: KindImage, Payload: dataURL}, ImagePlaceholder)
}

func (c *Controller) submit(req Request, shown string) (Request, bool) {
	if c.pending {
		c.logger.Debug("submit ignored while busy", zap.Stringer("kind", req.Kind))
		return Request{}, false
	}
	c.pending = true
	req.epoch = c.epoch

	c.append(c.conv.AddUserMessage(shown))
	c.view.ClearInput()
	c.showIndicator()

	c.logger.Debug("request submitted",
		zap.Stringer("kind", req.Kind),
		zap.Int("payload_bytes", len(req.Payload)),
	)
	return req, true
}

// =============================================================================
// DISPATCH / RESOLVE
// =============================================================================

// Dispatch performs the backend call for req. It reads no controller state
// and is safe to call from any goroutine.
func (c *Controller) Dispatch(ctx context.Context, req Request) Result {
	var (
		reply *backend.Reply
		err   error
	)
	switch req.Kind {
	case KindText:
		reply, err = c.backend.Chat(ctx, req.Payload)
	case KindImage:
		reply, err = c.backend.Image(ctx, req.Payload)
	default:
		err = fmt.Errorf("dispatch %v: unknown request kind", req.Kind)
	}

	if err != nil {
		c.logger.Warn("backend request failed",
			zap.Stringer("kind", req.Kind),
			zap.Stringer("type", backend.TypeOf(err)),
			zap.Error(err),
		)
		return Result{Request: req, Err: err}
	}
	return Result{Request: req, Reply: reply}
}

// Resolve hides the indicator and appends exactly one bot message: the
// reply, or an apology. Steps carried by the reply are appended to that
// message and the view is asked to re-render it.
//
// A Result for a request submitted before the last Clear only hides the
// indicator; Resolve returns nil for it.
func (c *Controller) Resolve(res Result) *model.Message {
	c.pending = false
	c.hideIndicator()

	if res.Request.epoch != c.epoch {
		c.logger.Debug("dropping result from before clear",
			zap.Stringer("kind", res.Request.Kind),
			zap.Error(res.Err),
		)
		return nil
	}

	if res.Err != nil || res.Reply == nil {
		err := res.Err
		if err == nil {
			err = backend.ErrMalformed
		}
		msg := c.conv.AddErrorMessage(Apology(err))
		c.append(msg)
		return msg
	}

	msg := c.conv.AddBotMessage(res.Reply.Response)
	c.append(msg)

	if res.Reply.HasSteps() {
		if err := c.conv.AppendSteps(msg.ID, res.Reply.Steps); err != nil {
			c.logger.Error("append steps", zap.String("id", msg.ID), zap.Error(err))
			return msg
		}
		c.view.UpdateMessage(msg)
		c.view.ScrollToBottom()
	}
	return msg
}

// Send dispatches req and resolves it on the calling goroutine.
func (c *Controller) Send(ctx context.Context, req Request) *model.Message {
	return c.Resolve(c.Dispatch(ctx, req))
}

// =============================================================================
// OTHER TRANSCRIPT ENTRIES
// =============================================================================

// ReportCameraFailure appends the camera apology. The error is logged only.
func (c *Controller) ReportCameraFailure(err error) *model.Message {
	c.logger.Warn("camera unavailable", zap.Error(err))
	msg := c.conv.AddErrorMessage(ApologyCamera)
	c.append(msg)
	return msg
}

// Fail appends the apology for err. Used for command output that does not
// go through Dispatch.
func (c *Controller) Fail(err error) *model.Message {
	c.logger.Warn("command failed", zap.Stringer("type", backend.TypeOf(err)), zap.Error(err))
	msg := c.conv.AddErrorMessage(Apology(err))
	c.append(msg)
	return msg
}

// Post appends a bot message that did not come from a chat request
// (greeting, command output).
func (c *Controller) Post(text string) *model.Message {
	msg := c.conv.AddBotMessage(text)
	c.append(msg)
	return msg
}

// Echo appends a user message without sending anything.
func (c *Controller) Echo(text string) *model.Message {
	msg := c.conv.AddUserMessage(text)
	c.append(msg)
	c.view.ClearInput()
	return msg
}

// Greet posts the welcome message.
func (c *Controller) Greet() *model.Message {
	return c.Post(Welcome)
}

// Clear tears down the transcript. A request still in flight keeps its
// indicator and keeps the controller busy; its Result is dropped.
func (c *Controller) Clear() {
	c.epoch++
	c.conv.Clear()
	if r, ok := c.view.(Resetter); ok {
		r.Reset()
	}
	c.view.ScrollToBottom()
}

// =============================================================================
// VIEW HELPERS
// =============================================================================

func (c *Controller) append(msg *model.Message) {
	c.view.AppendMessage(msg)
	c.view.ScrollToBottom()
}

func (c *Controller) showIndicator() {
	if c.indicator {
		return
	}
	c.indicator = true
	c.shown++
	c.view.ShowIndicator()
	c.view.ScrollToBottom()
}

func (c *Controller) hideIndicator() {
	if !c.indicator {
		return
	}
	c.indicator = false
	c.hidden++
	c.view.HideIndicator()
	c.view.ScrollToBottom()
}
