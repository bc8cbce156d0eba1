// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation view for the TUI: the message
// viewport, the input line, voice recording, and the async commands
// that settle optimistic sends against the backend.
package chat
