// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/session"
	"github.com/jeranaias/haven-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// LoginDoneMsg signals a finished login attempt.
type LoginDoneMsg struct {
	Err error
}

// RegisterDoneMsg signals a finished registration attempt.
type RegisterDoneMsg struct {
	Err error
}

// AuthenticatedMsg tells the root model the user is signed in.
type AuthenticatedMsg struct{}

// =============================================================================
// FORM MODEL
// =============================================================================

type mode int

const (
	modeLogin mode = iota
	modeRegister
)

const (
	fieldEmail = iota
	fieldPassword
	fieldConfirm
	fieldDoctor
)

// Model is the login/registration form.
type Model struct {
	theme   *styles.Theme
	mgr     *session.Manager
	timeout time.Duration

	mode    mode
	focus   int
	email   textinput.Model
	pass    textinput.Model
	confirm textinput.Model
	doctor  textinput.Model
	spinner spinner.Model

	width   int
	height  int
	busy    bool
	errText string
	notice  string
}

// NewModel creates the auth form.
func NewModel(theme *styles.Theme, mgr *session.Manager, timeout time.Duration) *Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 254
	email.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.CharLimit = 128

	confirm := textinput.New()
	confirm.Placeholder = "confirm password"
	confirm.EchoMode = textinput.EchoPassword
	confirm.EchoCharacter = '•'
	confirm.CharLimit = 128

	doctor := textinput.New()
	doctor.Placeholder = "your care provider's email"
	doctor.CharLimit = 254

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = theme.Spinner

	return &Model{
		theme:   theme,
		mgr:     mgr,
		timeout: timeout,
		email:   email,
		pass:    pass,
		confirm: confirm,
		doctor:  doctor,
		spinner: sp,
	}
}

// Init is a no-op; the form waits for input.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles form input and submission results.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		return m.handleKey(msg)

	case LoginDoneMsg:
		m.busy = false
		if msg.Err != nil {
			m.errText = friendlyAuthError(msg.Err)
			return m, nil
		}
		return m, func() tea.Msg { return AuthenticatedMsg{} }

	case RegisterDoneMsg:
		m.busy = false
		if msg.Err != nil {
			m.errText = friendlyAuthError(msg.Err)
			return m, nil
		}
		// Registration succeeded; drop back to login with the email
		// kept so one enter signs in.
		m.mode = modeLogin
		m.notice = "Account created. Sign in to continue."
		m.pass.Reset()
		m.confirm.Reset()
		m.doctor.Reset()
		m.setFocus(fieldPassword)
		return m, nil

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, m.updateInputs(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.setFocus(m.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.setFocus(m.focus - 1)
		return m, nil
	case "ctrl+t":
		m.toggleMode()
		return m, nil
	case "enter":
		return m, m.submit()
	}
	return m, m.updateInputs(msg)
}

func (m *Model) fieldCount() int {
	if m.mode == modeRegister {
		return 4
	}
	return 2
}

func (m *Model) setFocus(idx int) {
	n := m.fieldCount()
	m.focus = ((idx % n) + n) % n

	inputs := []*textinput.Model{&m.email, &m.pass, &m.confirm, &m.doctor}
	for i, in := range inputs {
		if i == m.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (m *Model) toggleMode() {
	if m.mode == modeLogin {
		m.mode = modeRegister
	} else {
		m.mode = modeLogin
	}
	m.errText = ""
	m.notice = ""
	m.setFocus(fieldEmail)
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.email, cmd = m.email.Update(msg)
	cmds = append(cmds, cmd)
	m.pass, cmd = m.pass.Update(msg)
	cmds = append(cmds, cmd)
	m.confirm, cmd = m.confirm.Update(msg)
	cmds = append(cmds, cmd)
	m.doctor, cmd = m.doctor.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

// =============================================================================
// SUBMISSION
// =============================================================================

func (m *Model) submit() tea.Cmd {
	email := strings.TrimSpace(m.email.Value())
	password := m.pass.Value()

	if email == "" || !strings.Contains(email, "@") {
		m.errText = "Please enter a valid email address."
		return nil
	}
	if len(password) < 8 {
		m.errText = "Password must be at least 8 characters."
		return nil
	}
	doctorEmail := strings.TrimSpace(m.doctor.Value())
	if m.mode == modeRegister {
		if password != m.confirm.Value() {
			m.errText = "Passwords do not match."
			return nil
		}
		if doctorEmail == "" || !strings.Contains(doctorEmail, "@") {
			m.errText = "Please enter your care provider's email address."
			return nil
		}
	}

	m.busy = true
	m.errText = ""
	m.notice = ""

	mgr, timeout := m.mgr, m.timeout
	if m.mode == modeRegister {
		req := backend.RegisterRequest{
			Email:       email,
			Password:    password,
			DoctorEmail: doctorEmail,
			Language:    mgr.Language(),
		}
		return tea.Batch(func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			return RegisterDoneMsg{Err: mgr.Register(ctx, req)}
		}, m.spinner.Tick)
	}
	return tea.Batch(func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return LoginDoneMsg{Err: mgr.Login(ctx, email, password)}
	}, m.spinner.Tick)
}

func friendlyAuthError(err error) string {
	msg := err.Error()
	if len(msg) > 120 {
		msg = msg[:120]
	}
	return msg
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the centered form.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.HeaderTitle.Render("Haven"))
	b.WriteString("\n")
	b.WriteString(m.theme.HeaderSubtitle.Render("a calm place to check in with yourself"))
	b.WriteString("\n\n")

	title := "Sign in"
	if m.mode == modeRegister {
		title = "Create account"
	}
	b.WriteString(m.theme.FormLabel.Render(title))
	b.WriteString("\n\n")

	b.WriteString(m.email.View())
	b.WriteString("\n")
	b.WriteString(m.pass.View())
	b.WriteString("\n")
	if m.mode == modeRegister {
		b.WriteString(m.confirm.View())
		b.WriteString("\n")
		b.WriteString(m.doctor.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.busy:
		b.WriteString(m.spinner.View() + " one moment...")
	case m.errText != "":
		b.WriteString(m.theme.FormError.Render(m.errText))
	case m.notice != "":
		b.WriteString(m.theme.FormHint.Render(m.notice))
	}
	b.WriteString("\n\n")

	switchHint := "ctrl+t create an account"
	if m.mode == modeRegister {
		switchHint = "ctrl+t back to sign in"
	}
	b.WriteString(m.theme.FormHint.Render("enter submit  tab next field  " + switchHint))

	box := m.theme.FormBox.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
