// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/haven-tui/internal/session"
	"github.com/jeranaias/haven-tui/internal/ui/styles"
	"github.com/jeranaias/haven-tui/internal/voice"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the conversation view.
type Model struct {
	theme    *styles.Theme
	mgr      *session.Manager
	backend  session.Backend
	recorder *voice.Recorder

	// timeout bounds init, history, and text sends; voiceTimeout is the
	// longer budget for uploading and transcribing a recording.
	timeout      time.Duration
	voiceTimeout time.Duration

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	width  int
	height int

	// inFlight counts unsettled sends, for the thinking indicator.
	inFlight  int
	recording bool
	loading   bool
	errText   string
}

// NewModel creates the chat view. recorder may be nil when voice input
// is disabled or no capture device exists.
func NewModel(theme *styles.Theme, mgr *session.Manager, b session.Backend, recorder *voice.Recorder, timeout, voiceTimeout time.Duration) *Model {
	vp := viewport.New(80, 20)

	input := textinput.New()
	input.Placeholder = "Share what's on your mind..."
	input.CharLimit = 2000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = theme.Spinner

	return &Model{
		theme:        theme,
		mgr:          mgr,
		backend:      b,
		recorder:     recorder,
		timeout:      timeout,
		voiceTimeout: voiceTimeout,
		viewport:     vp,
		input:        input,
		spinner:      sp,
		loading:      true,
	}
}

// Init starts session setup and the history fetch.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		initSessionCmd(m.mgr, m.timeout),
		m.spinner.Tick,
	)
}

// Update handles chat messages and key presses.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case InitDoneMsg:
		if msg.Err != nil {
			m.loading = false
			m.errText = "Could not reach Dr. Sarah. Your messages will be kept locally."
			m.refreshViewport()
			return m, dismissErrorCmd()
		}
		// Session is warm; pull the authoritative history.
		return m, loadHistoryCmd(m.mgr, m.backend, m.timeout)

	case HistoryLoadedMsg:
		m.loading = false
		m.mgr.CompleteHistory(msg.Pending, msg.Entries, msg.Err)
		if msg.Err != nil {
			m.errText = "Couldn't sync your conversation. Showing what's saved on this device."
		}
		m.refreshViewport()
		m.viewport.GotoBottom()
		if msg.Err != nil {
			return m, dismissErrorCmd()
		}
		return m, nil

	case SendCompleteMsg:
		m.inFlight--
		m.mgr.CompleteText(msg.Pending, msg.Resp, msg.Err)
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil

	case VoiceCompleteMsg:
		m.inFlight--
		m.mgr.CompleteVoice(msg.Pending, msg.Resp, msg.Err)
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil

	case RecordStartedMsg:
		if msg.Err != nil {
			m.recording = false
			m.errText = "Couldn't access the microphone: " + msg.Err.Error()
			return m, dismissErrorCmd()
		}
		return m, recordTickCmd()

	case ErrorDismissMsg:
		if m.errText != "" {
			m.errText = ""
			m.refreshViewport()
		}
		return m, nil

	case RecordTickMsg:
		if !m.recording {
			return m, nil
		}
		if m.recorder.OverCap() {
			return m, m.finishRecording()
		}
		return m, recordTickCmd()

	case spinner.TickMsg:
		if m.inFlight > 0 || m.loading || m.recording {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m, m.submit()

	case "ctrl+v":
		return m, m.toggleRecording()

	case "esc":
		if m.recording {
			m.recording = false
			m.recorder.Cancel()
			return m, nil
		}
		if m.errText != "" {
			m.errText = ""
			m.refreshViewport()
			return m, nil
		}

	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit dispatches the typed message: optimistic append first, network
// second.
func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.recording {
		return nil
	}
	m.input.Reset()

	_, p, err := m.mgr.BeginText(text)
	if err != nil {
		return nil
	}
	m.inFlight++
	m.refreshViewport()
	m.viewport.GotoBottom()

	return tea.Batch(
		sendTextCmd(m.backend, p, m.timeout),
		m.spinner.Tick,
	)
}

func (m *Model) toggleRecording() tea.Cmd {
	if m.recorder == nil {
		m.errText = "Voice input is not available on this system."
		return dismissErrorCmd()
	}
	if m.recording {
		return m.finishRecording()
	}
	m.recording = true
	m.errText = ""
	return tea.Batch(m.startRecordingCmd(), m.spinner.Tick)
}

// finishRecording stops the capture and dispatches the upload with its
// placeholder already in the conversation.
func (m *Model) finishRecording() tea.Cmd {
	m.recording = false

	audio, err := m.recorder.Stop()
	if err != nil {
		m.errText = "Recording failed: " + err.Error()
		return dismissErrorCmd()
	}

	_, p := m.mgr.BeginVoice()
	m.inFlight++
	m.refreshViewport()
	m.viewport.GotoBottom()

	return tea.Batch(
		sendVoiceCmd(m.backend, p, audio, m.voiceTimeout),
		m.spinner.Tick,
	)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	// Header, input box, and status bar take fixed rows.
	vpHeight := height - 7
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight
	m.input.Width = width - 8
}

// Reload is called by the root model when the view becomes active again
// (for instance after a mood check-in) to re-render the conversation.
func (m *Model) Reload() {
	m.refreshViewport()
	m.viewport.GotoBottom()
}
