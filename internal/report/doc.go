// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package report builds the wellness report from the backend's
// sentiment aggregates and renders it for the terminal and for
// markdown export.
package report
