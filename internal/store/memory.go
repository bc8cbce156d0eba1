// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"sync"

	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/model"
)

// =============================================================================
// IN-MEMORY STORE
// =============================================================================

// MemStore is an in-memory Store used by tests and by --no-cache runs.
type MemStore struct {
	mu          sync.Mutex
	conv        *model.Conversation
	initialized bool
	creds       Credentials
	hasCreds    bool
	report      *backend.SentimentReport

	// SaveCount counts SaveConversation calls, for tests that assert
	// exactly one cache write per applied action.
	SaveCount int
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// LoadConversation returns a copy of the stored conversation.
func (s *MemStore) LoadConversation() *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conv == nil {
		return model.NewConversation()
	}
	return s.conv.Clone()
}

// SaveConversation stores a copy of the conversation.
func (s *MemStore) SaveConversation(conv *model.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conv = conv.Clone()
	s.SaveCount++
	return nil
}

// SessionInitialized reports the flag.
func (s *MemStore) SessionInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// MarkSessionInitialized sets the flag.
func (s *MemStore) MarkSessionInitialized() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
	return nil
}

// LoadCredentials returns the stored credentials, if any.
func (s *MemStore) LoadCredentials() (Credentials, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds, s.hasCreds && s.creds.Valid()
}

// SaveCredentials stores the credentials.
func (s *MemStore) SaveCredentials(creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	s.hasCreds = true
	return nil
}

// LoadReport returns the stored report, or nil.
func (s *MemStore) LoadReport() *backend.SentimentReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// SaveReport stores the report.
func (s *MemStore) SaveReport(r *backend.SentimentReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = r
	return nil
}

// Clear resets everything.
func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conv = nil
	s.initialized = false
	s.creds = Credentials{}
	s.hasCreds = false
	s.report = nil
	return nil
}
