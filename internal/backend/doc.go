// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for communicating with the
// Haven API gateway: authentication, chat, voice transcription, and
// sentiment reporting.
package backend
