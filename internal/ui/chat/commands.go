// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"bytes"
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/haven-tui/internal/session"
)

// =============================================================================
// ASYNC COMMANDS
// =============================================================================

// initSessionCmd runs backend session setup.
func initSessionCmd(mgr *session.Manager, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return InitDoneMsg{Err: mgr.EnsureInitialized(ctx)}
	}
}

// loadHistoryCmd fetches the server-side history. The pending handle is
// captured before the network call so a logout in between invalidates
// the result.
func loadHistoryCmd(mgr *session.Manager, backend session.Backend, timeout time.Duration) tea.Cmd {
	p := mgr.BeginHistory()
	return func() tea.Msg {
		if p.UserID == "" {
			return HistoryLoadedMsg{Pending: p, Err: session.ErrNotLoggedIn}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		entries, err := backend.History(ctx, p.UserID)
		return HistoryLoadedMsg{Pending: p, Entries: entries, Err: err}
	}
}

// sendTextCmd performs the network half of a text send. The optimistic
// append has already happened in the Update loop via BeginText.
func sendTextCmd(b session.Backend, p session.PendingSend, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if p.UserID == "" {
			return SendCompleteMsg{Pending: p, Err: session.ErrNotLoggedIn}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := b.SendMessage(ctx, p.UserID, p.Text, p.Language)
		return SendCompleteMsg{Pending: p, Resp: resp, Err: err}
	}
}

// sendVoiceCmd uploads a finished recording.
func sendVoiceCmd(b session.Backend, p session.PendingVoice, audio []byte, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if p.UserID == "" {
			return VoiceCompleteMsg{Pending: p, Err: session.ErrNotLoggedIn}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := b.SendVoice(ctx, p.UserID, "recording.wav", bytes.NewReader(audio))
		return VoiceCompleteMsg{Pending: p, Resp: resp, Err: err}
	}
}

// startRecordingCmd starts the capture device.
func (m *Model) startRecordingCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return RecordStartedMsg{Err: m.recorder.Start(ctx)}
	}
}

// errBannerDisplay is how long an error banner stays up before it
// clears itself. Esc dismisses it earlier.
const errBannerDisplay = 10 * time.Second

// dismissErrorCmd schedules the error banner's auto-dismiss.
func dismissErrorCmd() tea.Cmd {
	return tea.Tick(errBannerDisplay, func(time.Time) tea.Msg {
		return ErrorDismissMsg{}
	})
}

// recordTickCmd drives the recording timer display.
func recordTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return RecordTickMsg{At: t}
	})
}
