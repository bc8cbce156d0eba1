// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dashboard provides the wellness view: the daily mood
// check-in, the sentiment report, and markdown export.
package dashboard
