// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package resourcesview provides the browsing UI for the self-help
// resource library.
package resourcesview
