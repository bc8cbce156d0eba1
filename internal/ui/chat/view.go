// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jeranaias/haven-tui/internal/model"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the conversation screen.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.errText != "" {
		b.WriteString(m.theme.ErrorBox.Width(m.width - 2).Render(m.errText))
		b.WriteString("\n")
	}

	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	return b.String()
}

func (m *Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("Dr. Sarah")
	sub := m.theme.HeaderSubtitle.Render("your space to talk")
	return m.theme.Header.Render(title + "  " + sub)
}

func (m *Model) renderInput() string {
	if m.recording {
		elapsed := m.recorder.Elapsed().Round(time.Second)
		line := m.theme.Recording.Render(fmt.Sprintf("● Recording %s", elapsed)) +
			m.theme.ShortcutDesc.Render("  ctrl+v to send, esc to discard")
		return m.theme.InputContainer.Width(m.width - 2).Render(line)
	}

	prompt := m.theme.InputPrompt.Render("> ")
	return m.theme.InputContainer.Width(m.width - 2).Render(prompt + m.input.View())
}

func (m *Model) renderStatusBar() string {
	var left string
	switch {
	case m.loading:
		left = m.spinner.View() + " connecting..."
	case m.inFlight > 0:
		left = m.spinner.View() + " Dr. Sarah is thinking..."
	default:
		left = "signed in as " + m.mgr.Email()
	}

	shortcuts := strings.Join([]string{
		m.theme.ShortcutKey.Render("enter") + m.theme.ShortcutDesc.Render(" send"),
		m.theme.ShortcutKey.Render("ctrl+v") + m.theme.ShortcutDesc.Render(" voice"),
		m.theme.ShortcutKey.Render("tab") + m.theme.ShortcutDesc.Render(" views"),
		m.theme.ShortcutKey.Render("ctrl+c") + m.theme.ShortcutDesc.Render(" quit"),
	}, "  ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(shortcuts) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Render(" " + left + strings.Repeat(" ", gap) + shortcuts)
}

// =============================================================================
// CONVERSATION RENDERING
// =============================================================================

// refreshViewport re-renders the conversation into the viewport.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderConversation())
}

func (m *Model) renderConversation() string {
	conv := m.mgr.Conversation()
	if conv.IsEmpty() {
		return m.theme.SystemNotice.Render("Starting your conversation...")
	}

	wrapWidth := m.viewport.Width - 4
	if wrapWidth < 20 {
		wrapWidth = 20
	}

	var b strings.Builder
	for i, msg := range conv.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg, wrapWidth))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderMessage(msg model.Message, wrapWidth int) string {
	label := m.theme.SenderLabel.Render(msg.Sender.DisplayName())
	text := wordwrap.String(msg.Text, wrapWidth)

	switch {
	case msg.IsPlaceholder():
		return label + "\n" + m.theme.Placeholder.Render(m.spinner.View()+" "+msg.Text)
	case msg.Sender == model.SenderUser:
		return label + "\n" + m.theme.UserBubble.Render(text)
	default:
		return label + "\n" + m.theme.BotBubble.Render(text)
	}
}
