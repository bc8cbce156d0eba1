// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session coordinates the conversation state machine: optimistic
// local updates, backend completions, history synchronization, and the
// logout barrier that keeps late completions out of a cleared cache.
package session
