// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package resources bundles the self-help resource library: short
// markdown articles and crisis contacts, rendered for the terminal.
package resources
