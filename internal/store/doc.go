// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store persists the session cache: the conversation, the
// session-initialized flag, the last fetched sentiment report, and the
// saved credentials. The file-backed implementation encrypts everything
// at rest and writes atomically.
package store
