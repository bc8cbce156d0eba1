// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/session"
)

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// InitDoneMsg signals that backend session setup finished.
type InitDoneMsg struct {
	Err error
}

// HistoryLoadedMsg delivers a fetched conversation history.
type HistoryLoadedMsg struct {
	Pending session.PendingHistory
	Entries []backend.HistoryEntry
	Err     error
}

// =============================================================================
// SEND MESSAGES
// =============================================================================

// SendCompleteMsg settles a text send dispatched by the input line.
type SendCompleteMsg struct {
	Pending session.PendingSend
	Resp    *backend.ChatResponse
	Err     error
}

// VoiceCompleteMsg settles a voice send.
type VoiceCompleteMsg struct {
	Pending session.PendingVoice
	Resp    *backend.VoiceResponse
	Err     error
}

// =============================================================================
// RECORDING MESSAGES
// =============================================================================

// RecordStartedMsg signals that the capture device began recording.
type RecordStartedMsg struct {
	Err error
}

// RecordTickMsg drives the elapsed-time display while recording.
type RecordTickMsg struct {
	At time.Time
}

// =============================================================================
// UI MESSAGES
// =============================================================================

// ErrorDismissMsg clears the error banner once its display window ends.
type ErrorDismissMsg struct{}
