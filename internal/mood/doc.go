// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mood records the user's daily mood check-ins in a local
// SQLite database. Mood entries never leave the device.
package mood
