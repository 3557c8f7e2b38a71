// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/mathly-tui/internal/mathfmt"
	"github.com/jeranaias/mathly-tui/internal/model"
	"github.com/jeranaias/mathly-tui/internal/ui/styles"
)

const typesetTimeout = 5 * time.Second

var (
	senderStyle = lipgloss.NewStyle().Foreground(styles.Purple).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(styles.Rose)
)

// printer writes messages to a line-oriented output. With a typesetter the
// bot's answers are rendered; without one they are printed as plain text.
type printer struct {
	out    io.Writer
	ts     *mathfmt.Typesetter
	width  int
	styled bool
	logger *zap.Logger
}

// newPrinter typesets only when out is a terminal.
func (a *app) newPrinter(out io.Writer) *printer {
	p := &printer{out: out, logger: a.logger}
	if !isTerminalWriter(out) {
		return p
	}
	p.styled = true
	p.width = wrapWidth(a.cfg.UI.WordWrap)
	ts, err := mathfmt.NewTypesetter(mathfmt.TypesetterOptions{
		Theme: a.cfg.UI.Theme,
		Width: p.width,
	})
	if err != nil {
		a.logger.Warn("typesetter unavailable", zap.Error(err))
		return p
	}
	p.ts = ts
	return p
}

// message prints one message.
func (p *printer) message(msg *model.Message) {
	if msg == nil {
		return
	}
	if !p.styled {
		fmt.Fprintln(p.out, msg.PlainText())
		return
	}

	label := senderStyle.Render(msg.Sender.DisplayName() + ":")
	if msg.IsError {
		fmt.Fprintln(p.out, label, errorStyle.Render(msg.Text))
		return
	}
	if !msg.IsBot() || p.ts == nil {
		fmt.Fprintln(p.out, label, msg.DisplayContent())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), typesetTimeout)
	defer cancel()
	out, err := p.ts.Typeset(ctx, msg.Markdown(), p.width)
	if err != nil {
		p.logger.Warn("typeset failed", zap.String("id", msg.ID), zap.Error(err))
		out = mathfmt.Fallback(msg.PlainText())
	}
	fmt.Fprintln(p.out, label)
	fmt.Fprintln(p.out, out)
}
