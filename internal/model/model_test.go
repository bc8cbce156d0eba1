// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("hello")

	if msg.Sender != SenderUser {
		t.Errorf("Sender = %q, want %q", msg.Sender, SenderUser)
	}
	if msg.Text != "hello" {
		t.Errorf("Text = %q, want %q", msg.Text, "hello")
	}
	if !strings.HasPrefix(msg.ID, "msg_") {
		t.Errorf("ID should start with 'msg_', got %q", msg.ID)
	}
}

func TestMessageIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		msg := NewUserMessage("x")
		if seen[msg.ID] {
			t.Fatalf("duplicate ID %q", msg.ID)
		}
		seen[msg.ID] = true
	}
}

func TestIsPlaceholder(t *testing.T) {
	ph := NewPlaceholder()
	if !ph.IsPlaceholder() {
		t.Error("NewPlaceholder should be a placeholder")
	}

	// A bot message with the same text is not a placeholder.
	bot := NewBotMessage("1", PlaceholderText)
	if bot.IsPlaceholder() {
		t.Error("bot message should never count as a placeholder")
	}

	user := NewUserMessage("hello")
	if user.IsPlaceholder() {
		t.Error("ordinary user message should not be a placeholder")
	}
}

func TestConversationAppendOrder(t *testing.T) {
	conv := NewConversation()
	conv.Append(NewBotMessage("1", "Hi"))
	conv.Append(NewUserMessage("I'm anxious"))
	conv.Append(NewBotMessage("2", "Tell me more"))

	if conv.Len() != 3 {
		t.Fatalf("Len = %d, want 3", conv.Len())
	}
	if conv.Messages[0].Text != "Hi" || conv.Messages[2].Text != "Tell me more" {
		t.Error("insertion order not preserved")
	}

	last, ok := conv.Last()
	if !ok || last.ID != "2" {
		t.Errorf("Last = %+v, want message 2", last)
	}
}

func TestResolvePlaceholder(t *testing.T) {
	conv := NewConversation()
	conv.Append(NewBotMessage("1", "Hi"))
	ph := NewPlaceholder()
	conv.Append(ph)

	if !conv.ResolvePlaceholder(ph.ID, "I said something") {
		t.Fatal("ResolvePlaceholder should find the placeholder")
	}

	got, ok := conv.MessageByID(ph.ID)
	if !ok {
		t.Fatal("placeholder disappeared")
	}
	if got.Text != "I said something" {
		t.Errorf("Text = %q, want transcribed text", got.Text)
	}
	if got.Sender != SenderUser {
		t.Errorf("Sender changed to %q", got.Sender)
	}
	// Position preserved.
	if conv.Messages[1].ID != ph.ID {
		t.Error("placeholder moved")
	}
}

func TestResolvePlaceholderIgnoresBotMessages(t *testing.T) {
	conv := NewConversation()
	conv.Append(NewBotMessage("7", "Hi"))

	if conv.ResolvePlaceholder("7", "x") {
		t.Error("should never rewrite a bot message")
	}
}

func TestFailPlaceholderKeepsEntry(t *testing.T) {
	conv := NewConversation()
	ph := NewPlaceholder()
	conv.Append(ph)

	if !conv.FailPlaceholder(ph.ID) {
		t.Fatal("FailPlaceholder should find the placeholder")
	}

	if conv.Len() != 1 {
		t.Error("placeholder must not be removed on failure")
	}
	got, _ := conv.MessageByID(ph.ID)
	if got.Text != PlaceholderFailedText {
		t.Errorf("Text = %q, want failure marker", got.Text)
	}
	if conv.HasUnresolvedPlaceholder() {
		t.Error("failed placeholder should no longer count as unresolved")
	}
}

func TestCloneIsDeep(t *testing.T) {
	conv := NewConversation()
	conv.Append(NewUserMessage("original"))

	clone := conv.Clone()
	clone.Messages[0].Text = "changed"
	clone.Append(NewUserMessage("extra"))

	if conv.Messages[0].Text != "original" {
		t.Error("Clone should not share message storage")
	}
	if conv.Len() != 1 {
		t.Error("Clone should not share the slice")
	}
}

func TestPreview(t *testing.T) {
	conv := NewConversation()
	if conv.Preview() != "Empty conversation" {
		t.Errorf("Preview = %q", conv.Preview())
	}

	conv.Append(NewBotMessage("1", "Hi"))
	conv.Append(NewUserMessage("I feel overwhelmed"))
	if conv.Preview() != "I feel overwhelmed" {
		t.Errorf("Preview = %q, want last user message", conv.Preview())
	}
}
