// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// COMMAND HANDLER REGISTRY
// =============================================================================

// CommandHandler handles one slash command. line is the full input.
type CommandHandler func(m *Model, line string, args []string) (tea.Model, tea.Cmd)

// commandHandlers maps command names to their handler functions.
var commandHandlers = map[string]CommandHandler{
	"help": handleHelpCommand,
	"h":    handleHelpCommand,
	"?":    handleHelpCommand,

	"clear": handleClearCommand,
	"c":     handleClearCommand,

	"calc":    handleCalcCommand,
	"formula": handleFormulaCommand,
	"f":       handleFormulaCommand,

	"camera": handleCameraCommand,
	"photo":  handleCameraCommand,
	"copy":   handleCopyCommand,

	"quit": handleQuitCommand,
	"q":    handleQuitCommand,
	"exit": handleQuitCommand,
}

// helpText is posted by /help.
const helpText = `**Commands**

- ` + "`/calc <expression>`" + ` evaluate an expression
- ` + "`/formula <category> [topic]`" + ` look up a formula
- ` + "`/camera`" + ` photograph a problem
- ` + "`/copy`" + ` copy the last answer
- ` + "`/clear`" + ` clear the conversation
- ` + "`/quit`" + ` exit

**Keys**

- ` + "`ctrl+p`" + ` camera: space captures, r retakes, enter sends, esc closes
- ` + "`ctrl+y`" + ` copy the last answer
- ` + "`ctrl+l`" + ` clear
- ` + "`pgup`/`pgdown`" + ` scroll`

// handleCommand runs a slash command line.
func (m Model) handleCommand(line string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return m, nil
	}
	name := strings.ToLower(strings.TrimPrefix(parts[0], "/"))

	handler, ok := commandHandlers[name]
	if !ok {
		m.conv.Echo(line)
		m.conv.Post("Unknown command " + parts[0] + ". Type /help for the list.")
		cmd := m.sync()
		return m, cmd
	}
	return handler(&m, line, parts[1:])
}

// =============================================================================
// HANDLERS
// =============================================================================

func handleHelpCommand(m *Model, line string, _ []string) (tea.Model, tea.Cmd) {
	m.conv.Echo(line)
	m.conv.Post(helpText)
	cmd := m.sync()
	return *m, cmd
}

func handleClearCommand(m *Model, _ string, _ []string) (tea.Model, tea.Cmd) {
	m.conv.Clear()
	m.input.Reset()
	cmd := m.sync()
	return *m, cmd
}

func handleCalcCommand(m *Model, line string, args []string) (tea.Model, tea.Cmd) {
	m.conv.Echo(line)
	if len(args) == 0 {
		m.conv.Post("Usage: /calc <expression>")
		cmd := m.sync()
		return *m, cmd
	}
	expr := strings.Join(args, " ")
	cmd := m.sync()
	return *m, tea.Batch(cmd, calcCmd(m.client, expr))
}

func handleFormulaCommand(m *Model, line string, args []string) (tea.Model, tea.Cmd) {
	m.conv.Echo(line)
	if len(args) == 0 {
		m.conv.Post("Usage: /formula <category> [topic]")
		cmd := m.sync()
		return *m, cmd
	}
	topic := strings.Join(args[1:], " ")
	cmd := m.sync()
	return *m, tea.Batch(cmd, formulaCmd(m.client, args[0], topic))
}

func handleCameraCommand(m *Model, _ string, _ []string) (tea.Model, tea.Cmd) {
	m.input.Reset()
	return m.openCamera()
}

func handleCopyCommand(m *Model, _ string, _ []string) (tea.Model, tea.Cmd) {
	m.input.Reset()
	return m.copyLastAnswer()
}

func handleQuitCommand(m *Model, _ string, _ []string) (tea.Model, tea.Cmd) {
	m.closeCamera()
	return *m, tea.Quit
}
