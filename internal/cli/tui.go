// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/mathly-tui/internal/config"
	"github.com/jeranaias/mathly-tui/internal/mathfmt"
	"github.com/jeranaias/mathly-tui/internal/ui/chat"
)

// runTUI starts the full-screen chat and blocks until it exits.
func (a *app) runTUI(cmd *cobra.Command) error {
	if !IsTTY() || !IsStdoutTTY() {
		return fmt.Errorf("the chat needs a terminal; use 'mathly ask' or 'mathly chat' for pipes")
	}

	ts, err := mathfmt.NewTypesetter(mathfmt.TypesetterOptions{
		Theme: a.cfg.UI.Theme,
		Width: a.cfg.UI.WordWrap,
	})
	if err != nil {
		a.logger.Warn("typesetter unavailable, showing plain text", zap.Error(err))
		ts = nil
	}

	m := chat.New(chat.Options{
		Client:      a.client,
		Camera:      a.camera(),
		Constraints: a.constraints(),
		Typesetter:  ts,
		ThemeName:   a.cfg.UI.Theme,
		Logger:      a.logger,
		PreviewFPS:  a.cfg.Camera.PreviewFPS,
		WordWrap:    a.cfg.UI.WordWrap,
	})

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if a.cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(m, opts...)

	if w := a.watchConfig(p); w != nil {
		defer w.Close()
	}

	final, err := p.Run()
	if fm, ok := final.(chat.Model); ok {
		if cerr := fm.Close(); cerr != nil {
			a.logger.Warn("camera close", zap.Error(cerr))
		}
	}
	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	return nil
}

// watchConfig forwards config file changes to the running program. It
// returns nil when there is no file to watch.
func (a *app) watchConfig(p *tea.Program) *config.Watcher {
	path, err := config.ActivePath()
	if err != nil {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	w, err := config.NewWatcher(path, config.DefaultDebounce,
		func(cfg *config.Config) {
			if a.opts.backendURL != "" {
				cfg.Backend.URL = a.opts.backendURL
			}
			p.Send(chat.ConfigReloadedMsg{Config: cfg})
		},
		func(err error) {
			a.logger.Warn("config reload failed", zap.Error(err))
		},
	)
	if err != nil {
		a.logger.Warn("config watcher unavailable", zap.Error(err))
		return nil
	}
	if err := w.Watch(); err != nil {
		a.logger.Warn("config watcher unavailable", zap.Error(err))
		w.Close()
		return nil
	}
	a.logger.Debug("watching config", zap.String("path", path))
	return w
}
