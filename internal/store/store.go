// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/model"
)

// =============================================================================
// CREDENTIALS
// =============================================================================

// Credentials are the tokens and identity saved after a successful login.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
}

// Valid reports whether the credentials identify a logged-in user.
func (c Credentials) Valid() bool {
	return c.AccessToken != "" && c.UserID != ""
}

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store is the session cache. Implementations must treat a missing or
// unreadable conversation as empty rather than an error: the cache is a
// performance layer, never a source of truth the app can refuse to start
// without.
type Store interface {
	// LoadConversation returns the cached conversation, or an empty one
	// when nothing usable is cached.
	LoadConversation() *model.Conversation

	// SaveConversation replaces the cached conversation.
	SaveConversation(conv *model.Conversation) error

	// SessionInitialized reports whether this login session has already
	// run backend session setup.
	SessionInitialized() bool

	// MarkSessionInitialized records that backend session setup ran.
	MarkSessionInitialized() error

	// LoadCredentials returns the saved credentials, if any.
	LoadCredentials() (Credentials, bool)

	// SaveCredentials persists the credentials for the session.
	SaveCredentials(creds Credentials) error

	// LoadReport returns the sentiment report saved by the last
	// successful fetch, or nil.
	LoadReport() *backend.SentimentReport

	// SaveReport caches a fetched sentiment report.
	SaveReport(r *backend.SentimentReport) error

	// Clear removes the conversation, the session flag, the cached
	// report, and the credentials in one pass. After Clear the store
	// reads as if the user had never logged in.
	Clear() error
}
