// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "github.com/google/uuid"

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "ai"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderBot:
		return "Dr. Sarah"
	default:
		return string(s)
	}
}

// =============================================================================
// SENTINEL TEXT
// =============================================================================

const (
	// PlaceholderText marks a voice message whose transcription is still
	// in flight. It must never survive a settled voice send.
	PlaceholderText = "Processing voice message..."

	// PlaceholderFailedText replaces a placeholder whose transcription
	// failed. The entry stays in the conversation so the user can see
	// their voice input was registered.
	PlaceholderFailedText = "Voice message (could not be transcribed)"

	// ApologyText is the synthetic bot reply inserted when the backend
	// could not produce a real one.
	ApologyText = "I'm sorry, I'm having trouble responding right now. Please try again in a moment."

	// WelcomeText greets the user when the conversation is empty.
	WelcomeText = "I'm Dr. Sarah, your AI therapeutic assistant. Feel free to share how you're feeling today."
)

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in a conversation. The ID is unique within
// a conversation: client-generated for locally-originated messages,
// server-issued for bot replies and fetched history. Sender never
// changes after creation; insertion order is the only ordering.
type Message struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}

// NewUserMessage creates a user message with a client-generated ID.
func NewUserMessage(text string) Message {
	return Message{ID: generateID(), Text: text, Sender: SenderUser}
}

// NewBotMessage creates a bot message carrying a server-issued ID.
func NewBotMessage(id, text string) Message {
	return Message{ID: id, Text: text, Sender: SenderBot}
}

// NewPlaceholder creates the transient user message shown while a voice
// recording is being transcribed.
func NewPlaceholder() Message {
	return Message{ID: generateID(), Text: PlaceholderText, Sender: SenderUser}
}

// NewApology creates the synthetic bot reply used on send failure.
// The ID is client-generated; the entry never corresponds to a server row.
func NewApology() Message {
	return Message{ID: generateID(), Text: ApologyText, Sender: SenderBot}
}

// IsPlaceholder reports whether the message is an unresolved voice
// placeholder.
func (m Message) IsPlaceholder() bool {
	return m.Sender == SenderUser && m.Text == PlaceholderText
}

// Preview returns a truncated single-line preview of the message text.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Text)
	if len(runes) <= maxLen {
		return m.Text
	}
	return string(runes[:maxLen-3]) + "..."
}

// generateID creates a unique client-side message ID.
func generateID() string {
	return "msg_" + uuid.NewString()
}
