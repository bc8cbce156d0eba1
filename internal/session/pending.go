// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "errors"

// =============================================================================
// ERRORS
// =============================================================================

// ErrNotLoggedIn is returned when an operation needs a logged-in user.
var ErrNotLoggedIn = errors.New("not logged in")

// ErrEmptyMessage is returned when a send is dispatched with empty or
// whitespace-only text. Nothing is appended, cached, or sent.
var ErrEmptyMessage = errors.New("empty message")

// =============================================================================
// PENDING HANDLES
// =============================================================================

// PendingSend is the handle returned by BeginText. It freezes the
// request parameters and the dispatch-time epoch so the completion can
// be validated against the session that started it.
type PendingSend struct {
	UserID   string
	Text     string
	Language string
	Epoch    uint64
}

// PendingVoice is the handle returned by BeginVoice.
type PendingVoice struct {
	UserID        string
	PlaceholderID string
	Epoch         uint64
}

// PendingHistory is the handle returned by BeginHistory.
type PendingHistory struct {
	UserID string
	Epoch  uint64
}
