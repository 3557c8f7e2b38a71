// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"image"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/mathly-tui/internal/capture"
	"github.com/jeranaias/mathly-tui/internal/conversation"
	"github.com/jeranaias/mathly-tui/internal/mathfmt"
	"github.com/jeranaias/mathly-tui/internal/ui/components"
	"github.com/jeranaias/mathly-tui/internal/ui/styles"
)

// Backend is the backend client used by the chat view.
type Backend interface {
	conversation.Backend
	Calculate(ctx context.Context, expression string) (string, error)
	Formula(ctx context.Context, category, topic string) (string, error)
	CheckRunning(ctx context.Context) error
	BaseURL() string
	SetBaseURL(base string)
}

// Options configures a Model.
type Options struct {
	Client      Backend
	Camera      capture.Camera
	Constraints capture.Constraints

	// Typesetter renders bot messages. Nil shows the formatted text as-is.
	Typesetter *mathfmt.Typesetter

	Theme     *styles.Theme
	ThemeName string
	Logger    *zap.Logger

	// PreviewFPS is the camera preview refresh rate (default: 10).
	PreviewFPS int

	// WordWrap caps the typesetting width. 0 uses the bubble width.
	WordWrap int

	// Clipboard writes text to the system clipboard
	// (default: clipboard.WriteAll).
	Clipboard func(string) error
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Styling
	theme     *styles.Theme
	themeName string
	keys      KeyMap

	// Dimensions
	width  int
	height int
	ready  bool

	// Controllers and collaborators
	client     Backend
	conv       *conversation.Controller
	capture    *capture.Controller
	transcript *transcript
	typesetter *mathfmt.Typesetter
	wordWrap   int
	logger     *zap.Logger
	clipboard  func(string) error

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	loading  components.LoadingIndicator

	// Camera overlay
	cameraOpen    bool
	preview       image.Image
	previewFPS    int
	previewGen    int
	cameraNote    string
	openGen       int
	acquireCancel context.CancelFunc

	// Status
	backendErr error
	notice     string
	noticeSeq  int
}

// New creates a chat model and posts the welcome message.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewThemeNamed(opts.ThemeName)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fps := opts.PreviewFPS
	if fps <= 0 {
		fps = capture.DefaultPreviewFPS
	}
	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a math question..."
	ti.CharLimit = 4096
	ti.PromptStyle = theme.InputPrompt
	ti.Focus()

	vp := viewport.New(80, 20)
	// Keys are routed explicitly; the viewport only handles the mouse.
	vp.KeyMap = viewport.KeyMap{}

	tr := newTranscript()
	conv := conversation.New(opts.Client, tr, logger)
	conv.Greet()

	return Model{
		theme:      theme,
		themeName:  opts.ThemeName,
		keys:       DefaultKeyMap(),
		client:     opts.Client,
		conv:       conv,
		capture:    capture.NewController(opts.Camera, opts.Constraints, logger),
		transcript: tr,
		typesetter: opts.Typesetter,
		wordWrap:   opts.WordWrap,
		logger:     logger.Named("tui"),
		clipboard:  copyFn,
		viewport:   vp,
		input:      ti,
		loading:    components.NewLoadingIndicator(),
		previewFPS: fps,
	}
}

// Conversation returns the conversation controller.
func (m Model) Conversation() *conversation.Controller {
	return m.conv
}

// Capture returns the capture controller.
func (m Model) Capture() *capture.Controller {
	return m.capture
}

// Close cancels a device request still in flight and releases the camera.
// The program calls it once the event loop has stopped.
func (m *Model) Close() error {
	m.cancelAcquire()
	return m.capture.Close()
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink and the backend health check.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, checkBackendCmd(m.client))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		if m.cameraOpen {
			return m.handleCameraKey(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case ReplyMsg:
		m.conv.Resolve(msg.Result)
		cmd := m.sync()
		return m, cmd

	case TypesetMsg:
		return m.handleTypeset(msg)

	case CommandResultMsg:
		if msg.Err != nil {
			m.conv.Fail(msg.Err)
		} else {
			m.conv.Post(msg.Text)
		}
		cmd := m.sync()
		return m, cmd

	case BackendStatusMsg:
		m.backendErr = msg.Err
		if msg.Err != nil {
			m.logger.Info("backend not reachable", zap.Error(msg.Err))
		}
		return m, nil

	case CameraOpenedMsg:
		return m.handleCameraOpened(msg)

	case PreviewTickMsg:
		return m.handlePreviewTick(msg)

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)

	case NoticeExpiredMsg:
		if msg.Seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	default:
		// Spinner ticks and cursor blinks.
		var cmds []tea.Cmd
		var cmd tea.Cmd
		wasActive := m.loading.IsActive()
		m.loading, cmd = m.loading.Update(msg)
		cmds = append(cmds, cmd)
		if wasActive {
			m.refreshViewport()
		}
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}
}

// View renders the model.
func (m Model) View() string {
	return m.renderChat()
}

// =============================================================================
// HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	widthChanged := msg.Width != m.width
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.input.Width = msg.Width - 6

	m.viewport.Width = msg.Width
	m.viewport.Height = m.bodyHeight()

	if !m.ready || widthChanged {
		m.ready = true
		m.transcript.retypeset()
	}
	m.transcript.ScrollToBottom()
	cmd := m.sync()
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.closeCamera()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Camera):
		return m.openCamera()

	case key.Matches(msg, m.keys.Copy):
		return m.copyLastAnswer()

	case key.Matches(msg, m.keys.Clear):
		m.conv.Clear()
		cmd := m.sync()
		return m, cmd

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the input line, or runs it as a slash command.
// Loading indicator labels.
const (
	thinkingText = "Mathly is thinking"
	readingText  = "Mathly is reading the photo"
)

func (m Model) submit() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	if strings.HasPrefix(strings.TrimSpace(value), "/") {
		return m.handleCommand(strings.TrimSpace(value))
	}

	req, ok := m.conv.SubmitText(value)
	if ok {
		m.loading.SetMessage(thinkingText)
	}
	cmd := m.sync()
	if !ok {
		return m, cmd
	}
	return m, tea.Batch(cmd, dispatchCmd(m.conv, req))
}

func (m Model) handleTypeset(msg TypesetMsg) (tea.Model, tea.Cmd) {
	out := msg.Output
	if msg.Err != nil {
		m.logger.Warn("typeset failed", zap.String("id", msg.ID), zap.Error(msg.Err))
		out = mathfmt.Fallback(msg.Raw)
	}
	if !m.transcript.setTypeset(msg.ID, msg.Version, msg.Width, out) {
		return m, nil
	}
	atBottom := m.viewport.AtBottom()
	m.refreshViewport()
	if atBottom {
		m.viewport.GotoBottom()
	}
	return m, nil
}

func (m Model) copyLastAnswer() (tea.Model, tea.Cmd) {
	last := m.conv.Conversation().LastBot()
	if last == nil {
		return m.setNotice("Nothing to copy yet")
	}
	if err := m.clipboard(last.PlainText()); err != nil {
		m.logger.Warn("clipboard write failed", zap.Error(err))
		return m.setNotice("Clipboard unavailable")
	}
	return m.setNotice("Copied answer to clipboard")
}

func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	cfg := msg.Config
	if cfg == nil {
		return m, nil
	}

	var cmds []tea.Cmd
	if m.client != nil && cfg.Backend.URL != "" && cfg.Backend.URL != m.client.BaseURL() {
		m.client.SetBaseURL(cfg.Backend.URL)
		m.logger.Info("backend url changed", zap.String("url", m.client.BaseURL()))
		cmds = append(cmds, checkBackendCmd(m.client))
	}

	if cfg.UI.Theme != m.themeName {
		m.applyTheme(cfg.UI.Theme)
	}

	var cmd tea.Cmd
	m, cmd = m.setNotice("Configuration reloaded")
	cmds = append(cmds, cmd, m.sync())
	return m, tea.Batch(cmds...)
}

// applyTheme switches styles and typesetter to a new theme name.
func (m *Model) applyTheme(name string) {
	theme := styles.NewThemeNamed(name)
	theme.SetSize(m.width, m.height)
	m.theme = theme
	m.themeName = name
	m.input.PromptStyle = theme.InputPrompt

	if m.typesetter != nil {
		ts, err := mathfmt.NewTypesetter(mathfmt.TypesetterOptions{
			Theme: name,
			Width: m.typesetWidth(),
		})
		if err != nil {
			m.logger.Warn("keeping previous typesetter", zap.Error(err))
		} else {
			m.typesetter = ts
		}
	}
	m.transcript.retypeset()
}

// setNotice shows a transient status bar message.
func (m Model) setNotice(text string) (Model, tea.Cmd) {
	m.noticeSeq++
	m.notice = text
	return m, noticeExpiryCmd(m.noticeSeq)
}

// =============================================================================
// SYNC
// =============================================================================

// sync applies what the controllers asked of the transcript: input reset,
// indicator changes, typesetting and scrolling.
func (m *Model) sync() tea.Cmd {
	var cmds []tea.Cmd

	clearInput, scroll := m.transcript.takeFlags()
	if clearInput {
		m.input.Reset()
	}

	switch {
	case m.transcript.indicator && !m.loading.IsActive():
		cmds = append(cmds, m.loading.Start())
	case !m.transcript.indicator && m.loading.IsActive():
		m.loading.Stop()
	}

	// Before the first resize the width is unknown; handleResize queues
	// everything again.
	if m.ready {
		width := m.typesetWidth()
		for _, job := range m.transcript.takeJobs() {
			if m.typesetter == nil {
				continue
			}
			cmds = append(cmds, typesetCmd(m.typesetter, job, width))
		}
	}

	m.refreshViewport()
	if scroll {
		m.viewport.GotoBottom()
	}
	return tea.Batch(cmds...)
}

// typesetWidth is the bubble width, capped by the configured word wrap.
func (m Model) typesetWidth() int {
	width := m.theme.BubbleWidth()
	if m.wordWrap > 0 && m.wordWrap < width {
		width = m.wordWrap
	}
	return width
}

// refreshViewport re-renders the transcript and the loading indicator.
func (m *Model) refreshViewport() {
	content := m.transcript.render(m.theme)
	if ind := m.loading.View(m.theme); ind != "" {
		if content != "" {
			content += "\n\n"
		}
		content += "  " + ind
	}
	m.viewport.SetContent(content)
}

// bodyHeight is the height left for the transcript or camera overlay.
func (m Model) bodyHeight() int {
	// header 1 + input 3 + status 1
	h := m.height - 5
	if h < 1 {
		h = 1
	}
	return h
}
