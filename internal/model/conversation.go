// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds the ordered message list for one login session.
//
// Mutations preserve a prefix-preserving evolution: settled messages are
// never reordered or removed, new messages are only appended, and the
// only in-place edit allowed is rewriting the text of a voice
// placeholder identified by ID.
type Conversation struct {
	Messages []Message `json:"messages"`
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{Messages: make([]Message, 0)}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message at the end of the conversation.
func (c *Conversation) Append(msg Message) {
	c.Messages = append(c.Messages, msg)
}

// ResolvePlaceholder rewrites the text of the user message with the
// given ID in place, preserving its position and ID. Returns false if
// no user message with that ID exists.
func (c *Conversation) ResolvePlaceholder(id, text string) bool {
	for i := range c.Messages {
		if c.Messages[i].ID == id && c.Messages[i].Sender == SenderUser {
			c.Messages[i].Text = text
			return true
		}
	}
	return false
}

// FailPlaceholder marks the placeholder with the given ID as failed.
// The entry is edited, never removed.
func (c *Conversation) FailPlaceholder(id string) bool {
	return c.ResolvePlaceholder(id, PlaceholderFailedText)
}

// Last returns the most recent message and true, or a zero Message and
// false when the conversation is empty.
func (c *Conversation) Last() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// MessageByID returns the message with the given ID and true, or a zero
// Message and false.
func (c *Conversation) MessageByID(id string) (Message, bool) {
	for _, msg := range c.Messages {
		if msg.ID == id {
			return msg, true
		}
	}
	return Message{}, false
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// HasUnresolvedPlaceholder reports whether any voice placeholder is
// still pending transcription.
func (c *Conversation) HasUnresolvedPlaceholder() bool {
	for _, msg := range c.Messages {
		if msg.IsPlaceholder() {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the conversation. Messages are value
// types, so copying the slice copies the entries.
func (c *Conversation) Clone() *Conversation {
	clone := &Conversation{Messages: make([]Message, len(c.Messages))}
	copy(clone.Messages, c.Messages)
	return clone
}

// Preview returns a short one-line summary from the last user message,
// for session listings.
func (c *Conversation) Preview() string {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Sender == SenderUser {
			return c.Messages[i].Preview(80)
		}
	}
	if len(c.Messages) > 0 {
		return c.Messages[0].Preview(80)
	}
	return "Empty conversation"
}
