// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the plain-terminal mode: argument parsing, a
// line-based chat REPL for environments without a full TTY UI, and
// one-shot subcommands.
package cli
