// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/model"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return s
}

func TestLoadConversationEmptyOnMiss(t *testing.T) {
	s := newTestStore(t)

	conv := s.LoadConversation()
	if conv == nil || !conv.IsEmpty() {
		t.Errorf("expected empty conversation on cache miss, got %+v", conv)
	}
}

func TestSaveAndLoadConversation(t *testing.T) {
	s := newTestStore(t)

	conv := model.NewConversation()
	conv.Append(model.NewBotMessage("1", "Hi"))
	conv.Append(model.NewUserMessage("I feel stressed"))

	if err := s.SaveConversation(conv); err != nil {
		t.Fatalf("SaveConversation failed: %v", err)
	}

	loaded := s.LoadConversation()
	if loaded.Len() != 2 {
		t.Fatalf("loaded %d messages, want 2", loaded.Len())
	}
	if loaded.Messages[1].Text != "I feel stressed" {
		t.Errorf("Text = %q", loaded.Messages[1].Text)
	}
	if loaded.Messages[0].Sender != model.SenderBot {
		t.Errorf("Sender = %q", loaded.Messages[0].Sender)
	}
}

func TestConversationEncryptedAtRest(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	conv := model.NewConversation()
	conv.Append(model.NewUserMessage("deeply personal disclosure"))
	if err := s.SaveConversation(conv); err != nil {
		t.Fatalf("SaveConversation failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "conversation.json"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if containsSubstring(raw, "deeply personal disclosure") {
		t.Error("conversation stored in plaintext")
	}
}

func containsSubstring(data []byte, sub string) bool {
	for i := 0; i+len(sub) <= len(data); i++ {
		if string(data[i:i+len(sub)]) == sub {
			return true
		}
	}
	return false
}

func TestMalformedCacheReadsEmpty(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	// Corrupt the cache file directly.
	if err := os.WriteFile(filepath.Join(dir, "conversation.json"), []byte("garbage"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	conv := s.LoadConversation()
	if !conv.IsEmpty() {
		t.Errorf("expected empty conversation for malformed cache, got %d messages", conv.Len())
	}
}

func TestSessionFlag(t *testing.T) {
	s := newTestStore(t)

	if s.SessionInitialized() {
		t.Error("fresh store should not be initialized")
	}
	if err := s.MarkSessionInitialized(); err != nil {
		t.Fatalf("MarkSessionInitialized failed: %v", err)
	}
	if !s.SessionInitialized() {
		t.Error("flag should persist after marking")
	}
}

func TestCredentialsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if _, ok := s.LoadCredentials(); ok {
		t.Error("fresh store should have no credentials")
	}

	creds := Credentials{
		AccessToken:  "tok",
		RefreshToken: "ref",
		UserID:       "user-1",
		Email:        "a@b.com",
	}
	if err := s.SaveCredentials(creds); err != nil {
		t.Fatalf("SaveCredentials failed: %v", err)
	}

	loaded, ok := s.LoadCredentials()
	if !ok {
		t.Fatal("LoadCredentials should succeed after save")
	}
	if loaded != creds {
		t.Errorf("loaded = %+v, want %+v", loaded, creds)
	}
}

func TestReportRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if s.LoadReport() != nil {
		t.Error("fresh store should have no report")
	}

	half := 0.5
	rpt := &backend.SentimentReport{
		UserID:          "42",
		AvailableLabels: []string{"joy"},
		DailySentiments: []backend.DailySentiment{
			{Date: "2025-06-01", Labels: map[string]*float64{"joy": &half}},
		},
	}
	if err := s.SaveReport(rpt); err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}

	loaded := s.LoadReport()
	if loaded == nil {
		t.Fatal("LoadReport returned nil after save")
	}
	if loaded.UserID.String() != "42" || len(loaded.DailySentiments) != 1 {
		t.Errorf("loaded = %+v", loaded)
	}
	if v := loaded.DailySentiments[0].Labels["joy"]; v == nil || *v != 0.5 {
		t.Errorf("joy score = %v", v)
	}
}

func TestClearRemovesEverything(t *testing.T) {
	s := newTestStore(t)

	conv := model.NewConversation()
	conv.Append(model.NewUserMessage("hello"))
	if err := s.SaveConversation(conv); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkSessionInitialized(); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveCredentials(Credentials{AccessToken: "t", UserID: "u"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveReport(&backend.SentimentReport{UserID: "u"}); err != nil {
		t.Fatal(err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if !s.LoadConversation().IsEmpty() {
		t.Error("conversation survived Clear")
	}
	if s.SessionInitialized() {
		t.Error("session flag survived Clear")
	}
	if _, ok := s.LoadCredentials(); ok {
		t.Error("credentials survived Clear")
	}
	if s.LoadReport() != nil {
		t.Error("report survived Clear")
	}
}

func TestClearIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.Clear(); err != nil {
		t.Errorf("Clear on empty store failed: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear failed: %v", err)
	}
}

func TestKeyPersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()
	s1, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	conv := model.NewConversation()
	conv.Append(model.NewUserMessage("hello"))
	if err := s1.SaveConversation(conv); err != nil {
		t.Fatal(err)
	}

	// Reopening must reuse the same key and read the same data.
	s2, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s2.LoadConversation().Len() != 1 {
		t.Error("conversation unreadable after reopen")
	}
}

func TestMemStore(t *testing.T) {
	s := NewMemStore()

	conv := model.NewConversation()
	conv.Append(model.NewUserMessage("x"))
	if err := s.SaveConversation(conv); err != nil {
		t.Fatal(err)
	}

	// Mutating the original must not leak into the store.
	conv.Append(model.NewUserMessage("y"))
	if s.LoadConversation().Len() != 1 {
		t.Error("MemStore should store a copy")
	}

	if s.SaveCount != 1 {
		t.Errorf("SaveCount = %d, want 1", s.SaveCount)
	}

	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if !s.LoadConversation().IsEmpty() {
		t.Error("Clear should empty the store")
	}
}
