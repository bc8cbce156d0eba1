// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package voice records microphone audio for transcription. The
// Recorder is a small state machine over a CaptureDevice; the platform
// capture implementations shell out to the system recorder.
package voice
