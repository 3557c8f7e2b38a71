// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/mathly-tui/internal/capture"
	"github.com/jeranaias/mathly-tui/internal/config"
	"github.com/jeranaias/mathly-tui/internal/conversation"
	"github.com/jeranaias/mathly-tui/internal/model"
	"github.com/jeranaias/mathly-tui/internal/ui/styles"
)

const (
	chatPrompt      = "mathly> "
	historyFileName = "chat_history"
)

var (
	bannerStyle   = lipgloss.NewStyle().Foreground(styles.Purple).Bold(true)
	thinkingStyle = lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
)

func newChatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Line-mode chat with history",
		Long: `Chat with Mathly one line at a time. Up and down arrows walk the
history, which is kept in ~/.mathly/chat_history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd)
		},
	}
}

func (a *app) runChat(cmd *cobra.Command) error {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	in := &historyReader{state: state, path: historyPath(), logger: a.logger}
	in.load()
	defer in.save()

	s := a.newChatSession(in, cmd.OutOrStdout(), cmd.ErrOrStderr())
	return s.run(cmd.Context())
}

// =============================================================================
// LINE INPUT
// =============================================================================

// lineReader reads one line of input.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// historyReader is a liner prompt that records what was typed.
type historyReader struct {
	state  *liner.State
	path   string
	logger *zap.Logger
}

func (h *historyReader) Prompt(prompt string) (string, error) {
	line, err := h.state.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		h.state.AppendHistory(line)
	}
	return line, nil
}

func (h *historyReader) load() {
	if h.path == "" {
		return
	}
	f, err := os.Open(h.path)
	if err != nil {
		return
	}
	defer f.Close()
	if _, err := h.state.ReadHistory(f); err != nil {
		h.logger.Debug("read chat history", zap.Error(err))
	}
}

func (h *historyReader) save() {
	if h.path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return
	}
	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		h.logger.Debug("save chat history", zap.Error(err))
		return
	}
	defer f.Close()
	if _, err := h.state.WriteHistory(f); err != nil {
		h.logger.Debug("save chat history", zap.Error(err))
	}
}

// historyPath returns ~/.mathly/chat_history, or "" without a home
// directory.
func historyPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, historyFileName)
}

// =============================================================================
// LINE VIEW
// =============================================================================

// lineView prints the conversation as it grows. Bot messages are held
// until flush so steps that arrive after the answer print with it.
type lineView struct {
	printer *printer
	errOut  io.Writer
	live    bool
	pending []*model.Message
}

func (v *lineView) AppendMessage(msg *model.Message) {
	if msg.IsBot() {
		v.pending = append(v.pending, msg)
	}
}

func (v *lineView) UpdateMessage(*model.Message) {}

func (v *lineView) ShowIndicator() {
	if v.live {
		fmt.Fprint(v.errOut, thinkingStyle.Render("Mathly is thinking..."))
	}
}

func (v *lineView) HideIndicator() {
	if v.live {
		fmt.Fprint(v.errOut, "\r\x1b[K")
	}
}

func (v *lineView) ClearInput()     {}
func (v *lineView) ScrollToBottom() {}

func (v *lineView) Reset() {
	v.pending = nil
	fmt.Fprintln(v.printer.out, "Conversation cleared.")
}

// flush prints the held messages.
func (v *lineView) flush() {
	for _, msg := range v.pending {
		v.printer.message(msg)
	}
	v.pending = nil
}

// =============================================================================
// CHAT SESSION
// =============================================================================

// chatBackend is the part of the backend the line commands use.
type chatBackend interface {
	conversation.Backend
	Calculate(ctx context.Context, expression string) (string, error)
	Formula(ctx context.Context, category, topic string) (string, error)
}

// chatSession is one line-mode conversation.
type chatSession struct {
	in     lineReader
	out    io.Writer
	conv   *conversation.Controller
	view   *lineView
	client chatBackend
	photo  func(ctx context.Context) (string, error)
	logger *zap.Logger
}

func (a *app) newChatSession(in lineReader, out, errOut io.Writer) *chatSession {
	p := a.newPrinter(out)
	view := &lineView{printer: p, errOut: errOut, live: p.styled}
	s := &chatSession{
		in:     in,
		out:    out,
		conv:   conversation.New(a.client, view, a.logger),
		view:   view,
		client: a.client,
		logger: a.logger,
	}
	s.photo = func(ctx context.Context) (string, error) {
		cam := capture.NewController(a.camera(), a.constraints(), a.logger)
		return takePhoto(ctx, cam, a.logger)
	}
	return s
}

// run reads lines until /quit, ctrl+c or end of input.
func (s *chatSession) run(ctx context.Context) error {
	fmt.Fprintln(s.out, bannerStyle.Render("Mathly chat")+
		" - type a question, /help for commands, /quit to exit.")

	for {
		line, err := s.in.Prompt(chatPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == "exit" || line == "quit":
			return nil
		case strings.HasPrefix(line, "/"):
			if quit := s.command(ctx, line); quit {
				return nil
			}
		default:
			if req, ok := s.conv.SubmitText(line); ok {
				s.conv.Send(ctx, req)
			}
		}
		s.view.flush()

		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// lineHelp is printed by /help.
const lineHelp = `Commands:
  /calc <expression>           evaluate an expression
  /formula <category> [topic]  look up a formula
  /snap                        photograph a problem and send it
  /clear                       clear the conversation
  /quit                        exit`

// command runs a slash command and reports whether the session should end.
func (s *chatSession) command(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	name := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	args := parts[1:]

	switch name {
	case "quit", "q", "exit":
		return true

	case "help", "h", "?":
		fmt.Fprintln(s.out, lineHelp)

	case "clear", "c":
		s.conv.Clear()

	case "calc":
		if len(args) == 0 {
			fmt.Fprintln(s.out, "Usage: /calc <expression>")
			return false
		}
		expr := strings.Join(args, " ")
		result, err := s.client.Calculate(ctx, expr)
		if err != nil {
			s.conv.Fail(err)
			return false
		}
		s.conv.Post(expr + " = " + result)

	case "formula", "f":
		if len(args) == 0 {
			fmt.Fprintln(s.out, "Usage: /formula <category> [topic]")
			return false
		}
		text, err := s.client.Formula(ctx, args[0], strings.Join(args[1:], " "))
		if err != nil {
			s.conv.Fail(err)
			return false
		}
		s.conv.Post(text)

	case "snap", "camera", "photo":
		dataURL, err := s.photo(ctx)
		if err != nil {
			s.conv.ReportCameraFailure(err)
			return false
		}
		if req, ok := s.conv.SubmitImage(dataURL); ok {
			s.conv.Send(ctx, req)
		}

	default:
		fmt.Fprintf(s.out, "Unknown command %s. Type /help for the list.\n", parts[0])
	}
	return false
}
